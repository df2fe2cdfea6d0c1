package domain

import (
	"encoding/json"

	"kurtikart/internal/sizes"
)

type Category struct {
	ID                  string `db:"id" json:"id"`
	Code                string `db:"code" json:"code"`
	Name                string `db:"name" json:"name"`
	NormalizedLowerCase string `db:"normalized_lower_case" json:"normalizedLowerCase"`
	KurtiType           string `db:"kurti_type" json:"kurtiType,omitempty"`
}

// Image is one catalog photo; hidden images stay out of storefront payloads.
type Image struct {
	URL      string `json:"url"`
	IsHidden bool   `json:"isHidden,omitempty"`
}

type Kurti struct {
	ID            string  `db:"id" json:"id"`
	Code          string  `db:"code" json:"code"`
	Category      string  `db:"category" json:"category"`
	Party         string  `db:"party" json:"party,omitempty"`
	SellingPrice  string  `db:"selling_price" json:"sellingPrice,omitempty"`
	ActualPrice   string  `db:"actual_price" json:"actualPrice,omitempty"`
	CustomerPrice float64 `db:"customer_price" json:"customerPrice"`
	ImagesJSON    string  `db:"images_json" json:"-"`
	SizesJSON     string  `db:"sizes_json" json:"-"`
	CountOfPiece  int     `db:"count_of_piece" json:"countOfPiece"`
	LastUpdated   string  `db:"last_updated_time" json:"lastUpdatedTime"`
}

// SizeEntries parses the raw descriptor list. The result is not memoized;
// rows are short-lived and the parse is cheap.
func (k *Kurti) SizeEntries() []sizes.Entry {
	return sizes.Parse(k.SizesJSON)
}

// Images returns the visible catalog photos.
func (k *Kurti) Images() []Image {
	var all []Image
	if err := json.Unmarshal([]byte(k.ImagesJSON), &all); err != nil {
		return nil
	}
	out := make([]Image, 0, len(all))
	for _, img := range all {
		if !img.IsHidden {
			out = append(out, img)
		}
	}
	return out
}

type OtherProduct struct {
	ID           string `db:"id" json:"id"`
	CategoryName string `db:"category_name" json:"categoryName"`
	ProductType  string `db:"product_type" json:"productType"`
	SubType      string `db:"sub_type" json:"subType,omitempty"`
	ImagesJSON   string `db:"images_json" json:"-"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt"`
}

func (p *OtherProduct) Images() []Image {
	var out []Image
	if err := json.Unmarshal([]byte(p.ImagesJSON), &out); err != nil {
		return nil
	}
	return out
}

// Offer is a promotional bundle spanning one or more categories.
type Offer struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Qty            int    `db:"qty" json:"qty"`
	CategoriesJSON string `db:"categories_json" json:"-"`
	Image          string `db:"image" json:"image,omitempty"`
	CreatedAt      string `db:"created_at" json:"createdAt"`
	UpdatedAt      string `db:"updated_at" json:"updatedAt"`
}

// CategoryIDs parses the raw category id list.
func (o *Offer) CategoryIDs() []string {
	var out []string
	if err := json.Unmarshal([]byte(o.CategoriesJSON), &out); err != nil {
		return nil
	}
	return out
}

type User struct {
	ID    string `db:"id" json:"id"`
	Phone string `db:"phone" json:"phoneNumber"`
	Name  string `db:"name" json:"name,omitempty"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"` // CUSTOMER | ADMIN
}

// UserID satisfies the logging package's interest in who acted.
func (u *User) UserID() string { return u.ID }

// SizeQty is one (size label, quantity) pair on a cart line. Order within a
// line follows insertion order; each label appears at most once.
type SizeQty struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}
