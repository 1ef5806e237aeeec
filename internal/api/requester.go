package api

import "context"

// Requester is the surface endpoint helpers depend on. *Client satisfies it;
// tests can substitute a fake to observe built requests.
type Requester interface {
	Execute(ctx context.Context, req RequestDescriptor) (*RawResponse, error)
}

func send(ctx context.Context, r Requester, b *RequestBuilder) (*RawResponse, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, req)
}

// doObject executes b and decodes a {"data": {...}} body into Response[T].
func doObject[T any](ctx context.Context, r Requester, b *RequestBuilder) (*Response[T], error) {
	resp, err := send(ctx, r, b)
	if err != nil {
		return nil, err
	}
	data, err := DecodeObject[T](resp.Body, "data")
	if err != nil {
		return nil, err
	}
	return &Response[T]{Data: data}, nil
}

// doList executes b and decodes a list body (bare array or {"data": [...]}).
func doList[T any](ctx context.Context, r Requester, b *RequestBuilder) (*ListResponse[T], error) {
	resp, err := send(ctx, r, b)
	if err != nil {
		return nil, err
	}
	items, err := DecodeList[T](resp.Body, "data")
	if err != nil {
		return nil, err
	}
	return &ListResponse[T]{Data: items}, nil
}

// doPaginated executes b and decodes a paginated list body.
func doPaginated[T any](ctx context.Context, r Requester, b *RequestBuilder) (*PaginatedResponse[T], error) {
	resp, err := send(ctx, r, b)
	if err != nil {
		return nil, err
	}
	return DecodePaginated[T](resp.Body)
}

// doEmpty executes b for endpoints that answer with no body. The body, if
// any, is not decoded.
func doEmpty(ctx context.Context, r Requester, b *RequestBuilder) error {
	_, err := send(ctx, r, b)
	return err
}
