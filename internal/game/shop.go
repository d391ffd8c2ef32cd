package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/thornvale/mud/internal/storage"
)

// Shop is the template side of a mob's store: opening float and initial
// stock, loaded with the mob template.
type Shop struct {
	Money   int                  `json:"money"`
	ItemIds []storage.Identifier `json:"item_ids,omitempty"`
}

func (s *Shop) Validate() error {
	el := errors.NewErrorList()

	if s.Money < 0 {
		el.Add(fmt.Errorf("shop money must not be negative"))
	}
	for i, id := range s.ItemIds {
		if err := id.Validate(); err != nil {
			el.Add(fmt.Errorf("item %d: %w", i, err))
		}
	}

	return el.Err()
}

// ShopState is the live side: a till and stock that change as players trade.
type ShopState struct {
	Money int
	Stock map[string]*ItemInstance
}

// FindStock returns the stocked instance matching str by id or name.
func (s *ShopState) FindStock(str string) *ItemInstance {
	if item, ok := s.Stock[str]; ok {
		return item
	}
	for _, item := range s.Stock {
		if matchItemName(item, str) {
			return item
		}
	}
	return nil
}

// Buy moves an item from stock to the buyer. All or nothing: an
// affordability failure changes no state.
func (s *ShopState) Buy(buyer *Player, item *ItemInstance) error {
	if _, ok := s.Stock[item.InstanceId]; !ok {
		return NewUserError("that item is not for sale")
	}
	if buyer.Money < item.Tmpl.Value {
		return NewUserError("you cannot afford that")
	}

	buyer.Money -= item.Tmpl.Value
	s.Money += item.Tmpl.Value
	delete(s.Stock, item.InstanceId)
	buyer.AddItem(item)
	return nil
}

// Sell is the mirror of Buy, gated on the shop's till covering the price.
func (s *ShopState) Sell(seller *Player, item *ItemInstance) error {
	if _, ok := seller.Items[item.InstanceId]; !ok {
		return NewUserError("you are not carrying that")
	}
	if s.Money < item.Tmpl.Value {
		return NewUserError("the shop cannot afford that")
	}

	s.Money -= item.Tmpl.Value
	seller.Money += item.Tmpl.Value
	seller.RemoveItem(item.InstanceId)
	if s.Stock == nil {
		s.Stock = make(map[string]*ItemInstance)
	}
	s.Stock[item.InstanceId] = item
	return nil
}
