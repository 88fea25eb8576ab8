package session

import (
	"errors"
	"fmt"

	"github.com/TpPoom/POS-System/models"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrEmptyBill   = errors.New("no items on the order")
	ErrOutOfStock  = errors.New("item is out of stock")
	ErrUnknownSize = errors.New("unknown size")
)

// UnitPrice resolves the full unit price at add-to-cart time: catalog base
// price plus the chosen size's delta plus every chosen add-on's delta. The
// result is frozen onto the line; later catalog changes never touch it.
func UnitPrice(item models.Item, size string, addOns []string) (float64, error) {
	sizeDelta, ok := item.Size[size]
	if !ok {
		return 0, fmt.Errorf("%w: %q on %s", ErrUnknownSize, size, item.Name)
	}

	price := item.Price + sizeDelta
	for _, addOn := range addOns {
		delta, ok := item.AddOn[addOn]
		if !ok {
			return 0, fmt.Errorf("unknown add-on %q on %s", addOn, item.Name)
		}
		price += delta
	}
	return price, nil
}

// Cart is the customer's local, not-yet-submitted selection.
type Cart struct {
	lines []models.OrderLine
}

func (c *Cart) Add(item models.Item, size string, addOns []string, quantity int) (models.OrderLine, error) {
	if item.Status == models.ItemOutOfStock {
		return models.OrderLine{}, ErrOutOfStock
	}
	if quantity < 1 {
		return models.OrderLine{}, fmt.Errorf("quantity must be at least 1")
	}

	price, err := UnitPrice(item, size, addOns)
	if err != nil {
		return models.OrderLine{}, err
	}

	line := models.OrderLine{
		Category: item.Category,
		Name:     item.Name,
		Size:     size,
		AddOn:    addOns,
		Quantity: quantity,
		Price:    price,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

func (c *Cart) RemoveAt(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

func (c *Cart) Lines() []models.OrderLine {
	return c.lines
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}
