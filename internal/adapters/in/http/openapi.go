package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// APIContract is the parsed API description shared by request validation
// and the swagger UI.
type APIContract struct {
	doc    *openapi3.T
	router routers.Router
	json   string
}

func LoadAPIContract() (*APIContract, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	return &APIContract{doc: doc, router: router, json: string(raw)}, nil
}

// ReadDoc lets the contract be registered with swag so echo-swagger can
// serve it as doc.json.
func (c *APIContract) ReadDoc() string {
	return c.json
}

var registerSwagger sync.Once

// RegisterSwagger makes the contract the document served under /swagger/.
// swag keeps a process-wide registry, so only the first call has an effect.
func (c *APIContract) RegisterSwagger() {
	registerSwagger.Do(func() { swag.Register(swag.Name, c) })
}

// ValidateRequests rejects requests under /api/ that do not match the
// contract. Other paths pass through untouched.
func (c *APIContract) ValidateRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(ctx)
			}

			route, pathParams, err := c.router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrMethodNotAllowed) {
					return echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
				}
				return echo.NewHTTPError(http.StatusNotFound, "route not found")
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					MultiError:         true,
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "request does not match the API contract: "+err.Error())
			}
			return next(ctx)
		}
	}
}
