// Package catalog composes product listing queries. A composition is a fold:
// an immutable base "select all" query refined once per present filter field,
// so identical inputs always yield an identical query and no step mutates
// shared state.
package catalog

import (
	"fmt"
	"strings"
)

// Filter is the set of independent optional predicates on the product
// collection. Absent fields (zero values, nil pointers) do not restrict the
// result set; present fields are ANDed.
type Filter struct {
	CategoryID   string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	FeaturedOnly bool
	Tag          string
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec orders the result set. The zero value means the default:
// created_at descending.
type SortSpec struct {
	Field     string
	Direction Direction
}

// Page is 1-based. The zero value means page 1 with DefaultPageSize rows.
type Page struct {
	Number int
	Size   int
}

const DefaultPageSize = 10

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// sortable is the allow-list of order-by columns. Anything else fails
// composition; sort fields are never forwarded to the store unchecked.
var sortable = map[string]bool{
	"created_at": true,
	"price":      true,
	"name":       true,
	"stock":      true,
	"rating":     true,
}

// SortableFields returns the allow-list, for error messages.
func SortableFields() []string {
	return []string{"created_at", "price", "name", "stock", "rating"}
}

// Query is a composed, executable read over the products table. Values are
// immutable once composed; refinement methods return copies.
type Query struct {
	joins  []string
	conds  []string
	args   []any
	sort   SortSpec
	limit  int
	offset int
}

// where appends a condition and its arguments without aliasing the receiver's
// backing arrays, so earlier Query values stay valid.
func (q Query) where(cond string, args ...any) Query {
	q.conds = append(q.conds[:len(q.conds):len(q.conds)], cond)
	q.args = append(q.args[:len(q.args):len(q.args)], args...)
	return q
}

func (q Query) join(clause string) Query {
	q.joins = append(q.joins[:len(q.joins):len(q.joins)], clause)
	return q
}

// nextArg is the placeholder index the next bound argument will take.
func (q Query) nextArg() int {
	return len(q.args) + 1
}

type step func(Query) Query

// Compose builds one read query from the filter, sort and page. All filter
// predicates are applied as refinements over the unfiltered base query; AND is
// commutative so the application order never changes the result set.
func Compose(f Filter, s SortSpec, p Page) (Query, error) {
	if s.Field == "" {
		s.Field = "created_at"
	}
	if s.Direction != Ascending {
		s.Direction = Descending
	}
	if p.Number == 0 && p.Size == 0 {
		p = Page{Number: 1, Size: DefaultPageSize}
	}

	var verr ValidationError
	if !sortable[s.Field] {
		verr.add("sortBy", fmt.Sprintf("unknown sort field; must be one of %s", strings.Join(SortableFields(), ", ")))
	}
	if p.Number < 1 {
		verr.add("page", "must be at least 1")
	}
	if p.Size < 1 {
		verr.add("limit", "must be at least 1")
	}
	if len(verr.Fields) > 0 {
		return Query{}, &verr
	}

	steps := []step{
		categoryStep(f.CategoryID),
		searchStep(f.Search),
		minPriceStep(f.MinPrice),
		maxPriceStep(f.MaxPrice),
		featuredStep(f.FeaturedOnly),
		tagStep(f.Tag),
	}

	q := Query{sort: s, limit: p.Size, offset: p.Offset()}
	for _, refine := range steps {
		q = refine(q)
	}
	return q, nil
}

func categoryStep(categoryID string) step {
	return func(q Query) Query {
		if categoryID == "" {
			return q
		}
		return q.where(fmt.Sprintf("p.category_id = $%d", q.nextArg()), categoryID)
	}
}

// searchStep matches the term as a case-insensitive substring of the product
// name. An empty or whitespace-only term is no filter at all; it must never
// degenerate into an always-true pattern.
func searchStep(term string) step {
	return func(q Query) Query {
		term = strings.TrimSpace(term)
		if term == "" {
			return q
		}
		return q.where(fmt.Sprintf("p.name ILIKE $%d", q.nextArg()), "%"+escapeLike(term)+"%")
	}
}

func minPriceStep(min *float64) step {
	return func(q Query) Query {
		if min == nil {
			return q
		}
		return q.where(fmt.Sprintf("p.price >= $%d", q.nextArg()), *min)
	}
}

// maxPriceStep never swaps or clamps against the lower bound: min > max is a
// legal query that yields zero rows.
func maxPriceStep(max *float64) step {
	return func(q Query) Query {
		if max == nil {
			return q
		}
		return q.where(fmt.Sprintf("p.price <= $%d", q.nextArg()), *max)
	}
}

func featuredStep(featuredOnly bool) step {
	return func(q Query) Query {
		if !featuredOnly {
			return q
		}
		return q.where("p.featured = TRUE")
	}
}

// tagStep restricts to products associated with a tag of exactly this name.
// Inner-join semantics: products with no tags drop out whenever a tag filter
// is present.
func tagStep(name string) step {
	return func(q Query) Query {
		if name == "" {
			return q
		}
		q = q.join("JOIN product_tags pt ON pt.product_id = p.id")
		q = q.join("JOIN tags t ON t.id = pt.tag_id")
		return q.where(fmt.Sprintf("t.name = $%d", q.nextArg()), name)
	}
}

// escapeLike neutralizes LIKE wildcards in user input so only the literal
// term matches. Postgres's default escape character is backslash.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

const productColumns = `p.id, p.name, p.description, p.price, p.sale_price, p.image_url,
	p.category_id, p.stock, p.featured, p.rating, p.review_count, p.slug,
	p.created_at, p.updated_at`

// SQL renders the composed select. The window count gives the exact total for
// the full predicate set from the same snapshot as the returned page, so rows
// and count can never disagree under concurrent writes.
func (q Query) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(productColumns)
	b.WriteString(",\n\tcount(*) OVER () AS total_count\nFROM products p")
	for _, j := range q.joins {
		b.WriteString("\n")
		b.WriteString(j)
	}
	if len(q.conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(q.conds, " AND "))
	}
	// Secondary sort on id keeps pagination stable when the sort column has
	// duplicate values.
	dir := "DESC"
	if q.sort.Direction == Ascending {
		dir = "ASC"
	}
	fmt.Fprintf(&b, "\nORDER BY p.%s %s, p.id", q.sort.Field, dir)
	fmt.Fprintf(&b, "\nLIMIT $%d OFFSET $%d", len(q.args)+1, len(q.args)+2)
	return b.String()
}

// Args returns the bound arguments for SQL, in placeholder order.
func (q Query) Args() []any {
	args := append(q.args[:len(q.args):len(q.args)], q.limit, q.offset)
	return args
}

// Limit reports the page size the query was composed with.
func (q Query) Limit() int { return q.limit }

// PageOffset reports the row offset the query was composed with.
func (q Query) PageOffset() int { return q.offset }
