package services

import (
	"database/sql"

	"kurtikart/internal/cache"
	"kurtikart/internal/domain"
	"kurtikart/internal/repos"
	"kurtikart/internal/sizes"
)

type CartService struct {
	Carts  *repos.CartRepo
	Kurtis *repos.KurtiRepo
	Views  *cache.Views
}

func NewCartService(carts *repos.CartRepo, kurtis *repos.KurtiRepo, views *cache.Views) *CartService {
	return &CartService{Carts: carts, Kurtis: kurtis, Views: views}
}

// KurtiSummary is the slice of a kurti a cart line needs for display.
type KurtiSummary struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Category      string         `json:"category"`
	CustomerPrice float64        `json:"customerPrice"`
	Images        []domain.Image `json:"images"`
}

type CartLine struct {
	ID        string           `json:"id"`
	KurtiID   string           `json:"kurtiId"`
	Kurti     KurtiSummary     `json:"kurti"`
	Sizes     []domain.SizeQty `json:"sizes"`
	LineTotal float64          `json:"lineTotal"`
}

type CartView struct {
	ID          string     `json:"id"`
	Items       []CartLine `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
}

// Add puts (size, qty) of a kurti into the caller's pending cart. Checks run
// in the storefront's order: quantity, stock, then authentication, so a
// visitor learns about availability before being bounced to login.
func (s *CartService) Add(userID, kurtiID, size string, qty int) error {
	if qty < 1 {
		return &domain.ValidationError{Msg: "Quantity must be at least 1"}
	}

	k, err := s.Kurtis.Get(kurtiID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	available := sizes.Resolve(k.SizeEntries(), k.CountOfPiece, size)
	if qty > available {
		return &domain.InsufficientStockError{Size: size, Available: available}
	}

	if userID == "" {
		return domain.ErrAuthRequired
	}

	cartID, err := s.Carts.EnsurePending(userID)
	if err != nil {
		return err
	}
	if err := s.Carts.AddSize(cartID, kurtiID, size, qty, available); err != nil {
		return err
	}
	s.Views.Invalidate()
	return nil
}

// UpdateQuantity replaces the quantity of a size already on the line.
func (s *CartService) UpdateQuantity(userID, lineID, size string, qty int) error {
	if qty < 1 {
		return &domain.ValidationError{Msg: "Quantity must be at least 1"}
	}
	if userID == "" {
		return domain.ErrAuthRequired
	}

	line, err := s.Carts.LineOwned(lineID, userID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	k, err := s.Kurtis.Get(line.KurtiID)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}

	available := sizes.Resolve(k.SizeEntries(), k.CountOfPiece, size)
	if qty > available {
		return &domain.InsufficientStockError{Size: size, Available: available}
	}

	if err := s.Carts.SetSize(line.ID, size, qty); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	s.Views.Invalidate()
	return nil
}

// Remove deletes the whole line: every size of that kurti goes together.
func (s *CartService) Remove(userID, lineID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if err := s.Carts.DeleteLineOwned(lineID, userID); err != nil {
		return err
	}
	s.Views.Invalidate()
	return nil
}

// Get assembles the cart view. An authenticated user with no pending cart
// gets the empty-cart value; an anonymous caller gets nil, which the handler
// turns into a login redirect.
func (s *CartService) Get(userID string) (*CartView, error) {
	if userID == "" {
		return nil, nil
	}

	key := "cart:" + userID
	if v, ok := s.Views.Get(key); ok {
		if cv, ok := v.(*CartView); ok {
			return cv, nil
		}
	}

	cart, err := s.Carts.FindPending(userID)
	if err == sql.ErrNoRows {
		return &CartView{Items: []CartLine{}}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.Carts.Lines(cart.ID)
	if err != nil {
		return nil, err
	}

	cv := &CartView{ID: cart.ID, Items: []CartLine{}}
	for _, row := range rows {
		k, err := s.Kurtis.Get(row.KurtiID)
		if err == sql.ErrNoRows {
			// kurti retired since it was added; hide the line
			continue
		}
		if err != nil {
			return nil, err
		}
		line := CartLine{
			ID:      row.ID,
			KurtiID: row.KurtiID,
			Kurti: KurtiSummary{
				ID:            k.ID,
				Code:          k.Code,
				Category:      k.Category,
				CustomerPrice: k.CustomerPrice,
				Images:        k.Images(),
			},
			Sizes: row.Sizes(),
		}
		for _, sq := range line.Sizes {
			line.LineTotal += k.CustomerPrice * float64(sq.Quantity)
			cv.TotalItems += sq.Quantity
		}
		cv.TotalAmount += line.LineTotal
		cv.Items = append(cv.Items, line)
	}

	s.Views.Set(key, cv)
	return cv, nil
}

// Count backs the cart badge; anonymous callers and read failures both
// report zero rather than an error.
func (s *CartService) Count(userID string) int {
	cv, err := s.Get(userID)
	if err != nil || cv == nil {
		return 0
	}
	return cv.TotalItems
}
