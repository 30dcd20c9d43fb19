// Package mock provides an in-memory EasyTrans backend for tests of code
// that depends on easytrans.API.
//
//	c, backend := mock.New(easytrans.ModeEffect)
//	backend.AddCustomers(...)
//	result, err := c.ImportOrders(ctx, orders)
//	order, err := c.GetOrder(ctx, result.NewOrderNos[0], easytrans.OrderIncludes{})
package mock

import (
	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/client"
)

// New returns a client wired to a fresh Backend. mode is the default
// import mode; pass "" for test mode.
func New(mode easytrans.Mode) (*client.Client, *Backend) {
	b := NewBackend()
	c := client.NewWithAPIClients(client.Config{DefaultMode: mode}, b, b, nil, nil)
	return c, b
}
