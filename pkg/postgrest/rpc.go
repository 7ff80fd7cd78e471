package postgrest

import (
	"context"
	"net/http"
)

// Rpc calls a stored procedure by name with a JSON-serializable parameter
// object. The procedure must already exist server-side; this client only
// shapes and sends the call. A nil params sends an empty parameter object.
func (c *Client) Rpc(ctx context.Context, name string, params any) Result {
	if params == nil {
		params = map[string]any{}
	}
	body, err := c.do(ctx, clientRequest{
		method:   http.MethodPost,
		resource: "rpc/" + name,
		payload:  params,
	})
	if err != nil {
		return errResult(err)
	}
	data, err := decodeJSON(body)
	if err != nil {
		return errResult(err)
	}
	return Result{Data: data}
}
