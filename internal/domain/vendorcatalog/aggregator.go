package vendorcatalog

// Aggregator groups flat variant records into product aggregates. It holds
// only the vendor's field map and is safe for concurrent use.
type Aggregator struct {
	vendor VendorCode
	fields FieldMap
}

// NewAggregator creates an aggregator reading records through the field map
func NewAggregator(vendor VendorCode, fields FieldMap) *Aggregator {
	return &Aggregator{
		vendor: vendor,
		fields: fields,
	}
}

// Aggregate groups records by style identifier, in first-encountered order.
//
// When maxProducts > 0, a record introducing a new style is skipped once that
// many styles are open. Records of styles already admitted keep merging after
// the bound is hit, so admitted products always carry all their variants.
// Records without a style identifier are dropped.
func (a *Aggregator) Aggregate(records []VariantRecord, maxProducts int) []ProductAggregate {
	groups := make(map[string]*productGroup)
	order := make([]string, 0)

	for _, record := range records {
		styleID, ok := record.Get(a.fields.StyleID)
		if !ok {
			continue
		}

		group, exists := groups[styleID]
		if !exists {
			if maxProducts > 0 && len(order) >= maxProducts {
				continue
			}
			group = a.openGroup(styleID, record)
			groups[styleID] = group
			order = append(order, styleID)
		}
		group.merge(record, a.fields)
	}

	products := make([]ProductAggregate, 0, len(order))
	for _, styleID := range order {
		products = append(products, groups[styleID].product())
	}
	return products
}

// openGroup starts a group; scalar attributes come from its first record
func (a *Aggregator) openGroup(styleID string, first VariantRecord) *productGroup {
	f := a.fields
	return &productGroup{
		aggregate: ProductAggregate{
			Vendor:      a.vendor,
			StyleID:     styleID,
			Brand:       first.Value(f.Brand),
			Title:       first.Value(f.Title),
			Description: first.Value(f.Description),
			Category:    first.Value(f.Category),
			Pricing: Pricing{
				PiecePrice: ParsePrice(first.Value(f.PiecePrice)),
				CasePrice:  ParsePrice(first.Value(f.CasePrice)),
				SalePrice:  ParsePrice(first.Value(f.SalePrice)),
			},
			Media: Media{
				ImageURL:     first.Value(f.ImageURL),
				ThumbnailURL: first.Value(f.ThumbnailURL),
				SpecSheetURL: first.Value(f.SpecSheetURL),
			},
		},
		colors: newOrderedSet(),
		sizes:  newOrderedSet(),
	}
}

type productGroup struct {
	aggregate ProductAggregate
	colors    *orderedSet
	sizes     *orderedSet
}

func (g *productGroup) merge(record VariantRecord, f FieldMap) {
	if color, ok := record.Get(f.Color); ok {
		g.colors.add(color)
	}
	if size, ok := record.Get(f.Size); ok {
		g.sizes.add(size)
	}
	g.aggregate.VariantCount++
}

func (g *productGroup) product() ProductAggregate {
	p := g.aggregate
	p.Colors = g.colors.values()
	p.Sizes = g.sizes.values()
	return p
}

// orderedSet is a string set that remembers first insertion order
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
