package handler

import (
	"context"
	"errors"
	"log"

	"github.com/an2938/retail-shop/internal/adapter/protocol"
	"github.com/an2938/retail-shop/internal/core/domain"
	"github.com/an2938/retail-shop/internal/core/service"
)

// Dispatcher routes one decoded request envelope to its handler and builds
// the response. It holds no per-connection state; a single instance serves
// every session, sharing the one ShopService behind it.
type Dispatcher struct {
	shop *service.ShopService
}

func NewDispatcher(shop *service.ShopService) *Dispatcher {
	return &Dispatcher{shop: shop}
}

// Dispatch handles a single request. ok is false when the request produces
// no response at all, which is the contract for commands outside the
// vocabulary: they are dropped, not answered.
func (d *Dispatcher) Dispatch(ctx context.Context, req protocol.Envelope) (resp protocol.Envelope, ok bool) {
	switch {
	case req.Command.IsSearch():
		return d.search(ctx, req), true
	case req.Command == protocol.CmdSave:
		return d.save(ctx, req), true
	case req.Command == protocol.CmdDelete:
		return d.delete(ctx, req), true
	case req.Command == protocol.CmdPurchase:
		return d.purchase(ctx, req), true
	default:
		return protocol.Envelope{}, false
	}
}

func (d *Dispatcher) search(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	switch req.Entity {
	case protocol.EntityCustomer:
		return d.searchCustomer(ctx, req)
	case protocol.EntityItem:
		return d.searchItem(ctx, req)
	case protocol.EntityOrder:
		text, err := d.shop.DailyOrderPrintout(ctx)
		if err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				log.Printf("order printout: %v", err)
			}
			return protocol.Response(protocol.CmdFailed, protocol.EntityOrder)
		}
		resp := protocol.Response(protocol.CmdDisplay, protocol.EntityOrder)
		resp.OrderText = text
		return resp
	}
	return protocol.Response(protocol.CmdFailed, req.Entity)
}

func (d *Dispatcher) searchCustomer(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	if req.Customer == nil {
		return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
	}

	switch req.Command {
	case protocol.CmdSearchByID, protocol.CmdSearchByIDEdit:
		c, err := d.shop.CustomerByID(ctx, req.Customer.ID)
		if err != nil {
			log.Printf("customer search: %v", err)
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		if c == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		cmd := protocol.CmdDisplay
		if req.Command == protocol.CmdSearchByIDEdit {
			cmd = protocol.CmdDisplayEdit // feeds the client's edit pane
		}
		resp := protocol.Response(cmd, protocol.EntityCustomer)
		resp.Customers = []domain.Customer{*c}
		return resp

	case protocol.CmdSearchByName:
		cs, err := d.shop.CustomersByLastName(ctx, req.Customer.LastName)
		return customerList(cs, err)
	case protocol.CmdSearchByType:
		cs, err := d.shop.CustomersByType(ctx, req.Customer.Type)
		return customerList(cs, err)
	}
	return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
}

// customerList wraps a collection query result. No matches is not an error:
// the client gets an empty DISPLAY rather than FAILED.
func customerList(cs []domain.Customer, err error) protocol.Envelope {
	if err != nil {
		log.Printf("customer search: %v", err)
		return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
	}
	resp := protocol.Response(protocol.CmdDisplay, protocol.EntityCustomer)
	resp.Customers = cs
	return resp
}

func (d *Dispatcher) searchItem(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	switch req.Command {
	case protocol.CmdSearchByID:
		if req.Item == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
		}
		it, err := d.shop.ItemByID(ctx, req.Item.ID)
		if err != nil {
			log.Printf("item search: %v", err)
			return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
		}
		if it == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
		}
		resp := protocol.Response(protocol.CmdDisplayItem, protocol.EntityItem)
		resp.Items = []domain.Item{*it}
		return resp

	case protocol.CmdSearchByName:
		if req.Item == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
		}
		items, err := d.shop.ItemsByDescription(ctx, req.Item.Description)
		return itemList(items, err)
	case protocol.CmdSearchAll:
		items, err := d.shop.AllItems(ctx)
		return itemList(items, err)
	}
	return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
}

func itemList(items []domain.Item, err error) protocol.Envelope {
	if err != nil {
		log.Printf("item search: %v", err)
		return protocol.Response(protocol.CmdFailed, protocol.EntityItem)
	}
	resp := protocol.Response(protocol.CmdDisplayItem, protocol.EntityItem)
	resp.Items = items
	return resp
}

func (d *Dispatcher) save(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	switch req.Entity {
	case protocol.EntityCustomer:
		if req.Customer == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		if err := d.shop.SaveCustomer(ctx, *req.Customer); err != nil {
			log.Printf("save customer %d: %v", req.Customer.ID, err)
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		return protocol.Response(protocol.CmdComplete, protocol.EntityCustomer)
	}
	return protocol.Response(protocol.CmdFailed, req.Entity)
}

func (d *Dispatcher) delete(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	switch req.Entity {
	case protocol.EntityCustomer:
		if req.Customer == nil {
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		if err := d.shop.RemoveCustomer(ctx, req.Customer.ID); err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				log.Printf("remove customer %d: %v", req.Customer.ID, err)
			}
			return protocol.Response(protocol.CmdFailed, protocol.EntityCustomer)
		}
		return protocol.Response(protocol.CmdComplete, protocol.EntityCustomer)
	}
	return protocol.Response(protocol.CmdFailed, req.Entity)
}

func (d *Dispatcher) purchase(ctx context.Context, req protocol.Envelope) protocol.Envelope {
	if req.Purchase == nil {
		return protocol.Response(protocol.CmdPurchaseFailed, protocol.EntityItem)
	}
	p := req.Purchase
	err := d.shop.Purchase(ctx, p.RequestID, p.ItemID, p.Quantity, p.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound),
			errors.Is(err, service.ErrInsufficientStock),
			errors.Is(err, service.ErrUnknownCustomer),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrDuplicateRequest):
			// expected refusals, no log
		default:
			log.Printf("purchase item %d: %v", p.ItemID, err)
		}
		return protocol.Response(protocol.CmdPurchaseFailed, protocol.EntityItem)
	}
	return protocol.Response(protocol.CmdPurchaseComplete, protocol.EntityItem)
}
