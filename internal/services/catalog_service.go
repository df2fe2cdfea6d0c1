package services

import (
	"database/sql"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"kurtikart/internal/cache"
	"kurtikart/internal/domain"
	"kurtikart/internal/repos"
	"kurtikart/internal/sizes"
)

type CatalogService struct {
	Cats      *repos.CategoryRepo
	Kurtis    *repos.KurtiRepo
	Others    *repos.OtherProductRepo
	OfferRepo *repos.OfferRepo
	Views     *cache.Views
}

func NewCatalogService(cats *repos.CategoryRepo, kurtis *repos.KurtiRepo, others *repos.OtherProductRepo, offers *repos.OfferRepo, views *cache.Views) *CatalogService {
	return &CatalogService{Cats: cats, Kurtis: kurtis, Others: others, OfferRepo: offers, Views: views}
}

// KurtiView is a kurti shaped for the storefront: visible images, resolved
// size labels, and the kurti-type name borrowed from its category.
type KurtiView struct {
	domain.Kurti
	KurtiTypeName string         `json:"kurtiTypeName,omitempty"`
	Images        []domain.Image `json:"images"`
	Sizes         []string       `json:"sizes"`
}

type KurtiType struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type KurtiListing struct {
	Kurtis     []KurtiView       `json:"kurtis"`
	Categories []domain.Category `json:"categories"`
	KurtiTypes []KurtiType       `json:"kurtiTypes,omitempty"`
	Sizes      []string          `json:"sizes"`
}

type OtherProductView struct {
	domain.OtherProduct
	Images []domain.Image `json:"images"`
}

type OtherListing struct {
	Products []OtherProductView `json:"products"`
	HasMore  bool               `json:"hasMore"`
	Total    int                `json:"total"`
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}

var reALine = regexp.MustCompile(`(?i)\bA\s+Line\b`)

// KurtiTypes lists the distinct kurti-type tags with display names: the
// camelCase key split to Title Case, with "A Line" collapsed to "A-Line".
func (s *CatalogService) KurtiTypes() ([]KurtiType, error) {
	keys, err := s.Cats.KurtiTypes()
	if err != nil {
		return nil, err
	}
	out := make([]KurtiType, 0, len(keys))
	for _, key := range keys {
		display := reALine.ReplaceAllString(titleFromCamel(key), "A-Line")
		out = append(out, KurtiType{Key: key, Value: display})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func titleFromCamel(s string) string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// matchCategoryCode resolves a requested category string to a canonical
// code, comparing case-insensitively against each category's code and
// normalized name. "" means no canonical match.
func matchCategoryCode(category string, cats []domain.Category) string {
	if category == "" || strings.EqualFold(category, "all") {
		return ""
	}
	for _, c := range cats {
		if c.Code != "" && strings.EqualFold(c.Code, category) {
			return c.Code
		}
		if strings.EqualFold(c.NormalizedLowerCase, category) {
			return c.Code
		}
	}
	return ""
}

// kurtiTypeByCode maps lowercased category codes to their kurti-type tag.
func kurtiTypeByCode(cats []domain.Category) map[string]string {
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		if c.Code != "" && c.KurtiType != "" {
			m[strings.ToLower(c.Code)] = c.KurtiType
		}
	}
	return m
}

func (s *CatalogService) toViews(ks []domain.Kurti, typeByCode map[string]string) []KurtiView {
	out := make([]KurtiView, 0, len(ks))
	for _, k := range ks {
		entries := k.SizeEntries()
		labels := sizes.Union(entries)
		out = append(out, KurtiView{
			Kurti:         k,
			KurtiTypeName: typeByCode[strings.ToLower(k.Category)],
			Images:        k.Images(),
			Sizes:         labels,
		})
	}
	return out
}

// ByCategoryAndSize is the catalog page flow: category resolved to a code
// (falling back to a raw case-insensitive match when no code fits), then the
// availability filter, then the size filter. The size union is taken before
// size filtering so the filter chips reflect the whole category.
func (s *CatalogService) ByCategoryAndSize(category, size string) (*KurtiListing, error) {
	key := "catalog:" + strings.ToLower(category) + "|" + strings.ToLower(size)
	if v, ok := s.Views.Get(key); ok {
		if l, ok := v.(*KurtiListing); ok {
			return l, nil
		}
	}

	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}

	code := matchCategoryCode(category, cats)
	var codes []string
	if code != "" {
		codes = []string{code}
	}
	ks, err := s.Kurtis.List(codes, "")
	if err != nil {
		return nil, err
	}

	// No canonical code matched: compare the request against the raw
	// category field rather than returning nothing.
	if code == "" && category != "" && !strings.EqualFold(category, "all") {
		filtered := ks[:0]
		for _, k := range ks {
			if strings.EqualFold(k.Category, category) {
				filtered = append(filtered, k)
			}
		}
		ks = filtered
	}

	listing := s.assemble(ks, cats, size)
	s.Views.Set(key, listing)
	return listing, nil
}

// WithFilters is the kurtis page flow: filter=new-releases narrows to the
// last week and kurtiType narrows to the category codes carrying that tag.
func (s *CatalogService) WithFilters(filter, kurtiType, size string) (*KurtiListing, error) {
	key := "kurtis:" + strings.ToLower(filter) + "|" + strings.ToLower(kurtiType) + "|" + strings.ToLower(size)
	if v, ok := s.Views.Get(key); ok {
		if l, ok := v.(*KurtiListing); ok {
			return l, nil
		}
	}

	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}

	var codes []string
	if kurtiType != "" && !strings.EqualFold(kurtiType, "all") {
		for _, c := range cats {
			if c.Code != "" && strings.EqualFold(c.KurtiType, kurtiType) {
				codes = append(codes, c.Code)
			}
		}
	}

	since := ""
	if filter == "new-releases" {
		since = weekAgo()
	}

	ks, err := s.Kurtis.List(codes, since)
	if err != nil {
		return nil, err
	}

	listing := s.assemble(ks, cats, size)
	types, err := s.KurtiTypes()
	if err != nil {
		return nil, err
	}
	listing.KurtiTypes = types
	s.Views.Set(key, listing)
	return listing, nil
}

// assemble applies the availability filter, takes the size union over the
// surviving set, then applies the size filter.
func (s *CatalogService) assemble(ks []domain.Kurti, cats []domain.Category, size string) *KurtiListing {
	typeByCode := kurtiTypeByCode(cats)

	withSizes := make([]domain.Kurti, 0, len(ks))
	var entrySets [][]sizes.Entry
	for _, k := range ks {
		entries := k.SizeEntries()
		if !sizes.HasAny(entries) {
			continue
		}
		withSizes = append(withSizes, k)
		entrySets = append(entrySets, entries)
	}

	union := sizes.Union(entrySets...)
	if union == nil {
		union = []string{}
	}

	kept := withSizes
	if size != "" && !strings.EqualFold(size, "all") {
		kept = kept[:0]
		for i, k := range withSizes {
			if sizes.MatchesLabel(entrySets[i], size) {
				kept = append(kept, k)
			}
		}
	}

	return &KurtiListing{
		Kurtis:     s.toViews(kept, typeByCode),
		Categories: cats,
		Sizes:      union,
	}
}

// NewReleases picks a random sample of the last week's additions.
func (s *CatalogService) NewReleases(limit int) ([]KurtiView, error) {
	if limit <= 0 {
		limit = 8
	}
	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}
	ks, err := s.Kurtis.List(nil, weekAgo())
	if err != nil {
		return nil, err
	}

	withSizes := make([]domain.Kurti, 0, len(ks))
	for _, k := range ks {
		if sizes.HasAny(k.SizeEntries()) {
			withSizes = append(withSizes, k)
		}
	}
	rand.Shuffle(len(withSizes), func(i, j int) {
		withSizes[i], withSizes[j] = withSizes[j], withSizes[i]
	})
	if len(withSizes) > limit {
		withSizes = withSizes[:limit]
	}
	return s.toViews(withSizes, kurtiTypeByCode(cats)), nil
}

// GetKurti fetches one kurti directly; listings hide size-less products but
// a direct link still resolves. nil for unknown or deleted ids.
func (s *CatalogService) GetKurti(id string) (*KurtiView, error) {
	k, err := s.Kurtis.Get(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}
	v := s.toViews([]domain.Kurti{k}, kurtiTypeByCode(cats))
	return &v[0], nil
}

// OtherProducts returns one page plus total; hasMore tells the infinite
// scroll whether another fetch is worthwhile.
func (s *CatalogService) OtherProducts(category, productType, subType string, skip, take int) (*OtherListing, error) {
	total, err := s.Others.Count(category, productType, subType)
	if err != nil {
		return nil, err
	}
	rows, err := s.Others.List(category, productType, subType, skip, take)
	if err != nil {
		return nil, err
	}
	views := make([]OtherProductView, 0, len(rows))
	for _, p := range rows {
		views = append(views, OtherProductView{OtherProduct: p, Images: p.Images()})
	}
	return &OtherListing{
		Products: views,
		HasMore:  skip+take < total,
		Total:    total,
	}, nil
}

// OtherProductByID is the direct fetch behind a shared product link; nil for
// unknown or deleted ids, same contract as GetKurti.
func (s *CatalogService) OtherProductByID(id string) (*OtherProductView, error) {
	p, err := s.Others.GetByID(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &OtherProductView{OtherProduct: p, Images: p.Images()}, nil
}

// OfferCategory is one resolved entry of an offer's category id list.
type OfferCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type OfferView struct {
	domain.Offer
	Categories []OfferCategory `json:"categories"`
}

// Offers lists offers newest-first, each with its category ids resolved to
// display triples. Ids pointing at deleted or vanished categories are
// dropped rather than surfaced as holes.
func (s *CatalogService) Offers() ([]OfferView, error) {
	offers, err := s.OfferRepo.List()
	if err != nil {
		return nil, err
	}
	byID, err := s.offerCategoryIndex()
	if err != nil {
		return nil, err
	}
	out := make([]OfferView, 0, len(offers))
	for _, o := range offers {
		out = append(out, OfferView{Offer: o, Categories: resolveOfferCategories(&o, byID)})
	}
	return out, nil
}

// GetOffer mirrors GetKurti: nil for unknown ids.
func (s *CatalogService) GetOffer(id string) (*OfferView, error) {
	o, err := s.OfferRepo.Get(id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	byID, err := s.offerCategoryIndex()
	if err != nil {
		return nil, err
	}
	return &OfferView{Offer: o, Categories: resolveOfferCategories(&o, byID)}, nil
}

func (s *CatalogService) offerCategoryIndex() (map[string]OfferCategory, error) {
	cats, err := s.Cats.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]OfferCategory, len(cats))
	for _, c := range cats {
		byID[c.ID] = OfferCategory{ID: c.ID, Name: c.Name, Code: c.Code}
	}
	return byID, nil
}

func resolveOfferCategories(o *domain.Offer, byID map[string]OfferCategory) []OfferCategory {
	out := []OfferCategory{}
	for _, id := range o.CategoryIDs() {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

func weekAgo() string {
	return time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02 15:04:05")
}
