// AngelaMos | 2026
// products.go

package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/carterperez-dev/panelcatalog/internal/auth"
	"github.com/carterperez-dev/panelcatalog/internal/catalog"
	"github.com/carterperez-dev/panelcatalog/internal/product"
)

// Login exchanges credentials for a token and stores it on the session.
func (c *Client) Login(
	ctx context.Context,
	username, password string,
) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, auth.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.session.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*auth.UserResponse, error) {
	var user auth.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProducts(
	ctx context.Context,
	enabledOnly bool,
) ([]product.Product, error) {
	var query url.Values
	if enabledOnly {
		query = url.Values{"enabled": {"true"}}
	}

	var products []product.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(
	ctx context.Context,
	req product.ProductRequest,
) (*product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(
	ctx context.Context,
	id string,
	req product.ProductRequest,
) (*product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodPut, productPath(id), nil, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ToggleProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := c.do(ctx, http.MethodPatch, productPath(id)+"/toggle", nil, nil, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil)
}

// Catalog loads the public product list. When the API cannot serve it the
// bundled list is returned instead and fallback is true. Cancellation of
// ctx is returned as an error, never replaced by the bundled list.
func (c *Client) Catalog(
	ctx context.Context,
	enabledOnly bool,
) (products []product.Product, fallback bool, err error) {
	products, err = c.ListProducts(ctx, enabledOnly)
	if err == nil {
		return products, false, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, false, ctxErr
	}

	slog.Warn("catalog fetch failed, using bundled list", "error", err)

	products, staticErr := catalog.Static()
	if staticErr != nil {
		return nil, false, fmt.Errorf("catalog fallback: %w", staticErr)
	}
	if enabledOnly {
		products = catalog.EnabledOnly(products)
	}

	return products, true, nil
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}
