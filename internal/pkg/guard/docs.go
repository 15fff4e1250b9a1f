// Package guard provides ConstructorGuard, a small marker that lets domain
// values, commands and queries reject use of their zero value.
//
// A guarded type embeds a ConstructorGuard field, sets it in its constructor
// and checks it first thing in its own Validate method:
//
//	cmd, err := commands.NewPickItemCommand(fulfillmentID, itemID, 2, nil)
//	if err != nil {
//	    return err
//	}
//	_ = cmd.Validate() // nil
//
//	var zero commands.PickItemCommand
//	_ = zero.Validate() // ErrPickItemCommandIsNotConstructed
//
// The guard is a plain bool, so copying a constructed value keeps it valid.
package guard
