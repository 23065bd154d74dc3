package types

type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"-"`
}

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RefKind tells whether a reference holds a display name or a record id.
type RefKind int

const (
	RefName RefKind = iota
	RefID
)

// CategoryRef is a provider's category as stored: either a plain name or a
// linked record id. Only the resolver sees these; everything downstream works
// on resolved display names.
type CategoryRef struct {
	Kind  RefKind
	Value string
}

func CategoryName(name string) CategoryRef {
	return CategoryRef{Kind: RefName, Value: name}
}

func CategoryID(id string) CategoryRef {
	return CategoryRef{Kind: RefID, Value: id}
}

// Options is the category and location vocabulary served by the options cache.
type Options struct {
	Categories []*Category
	Locations  []*Location
}

func (o *Options) CategoryByID(id string) *Category {
	for _, c := range o.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (o *Options) LocationByID(id string) *Location {
	for _, l := range o.Locations {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (o *Options) CategoryNamesByID() map[string]string {
	out := make(map[string]string, len(o.Categories))
	for _, c := range o.Categories {
		out[c.ID] = c.Name
	}
	return out
}

func (o *Options) LocationNamesByID() map[string]string {
	out := make(map[string]string, len(o.Locations))
	for _, l := range o.Locations {
		out[l.ID] = l.Name
	}
	return out
}

type OptionItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OptionsResponse struct {
	Categories []OptionItem `json:"categories"`
	Locations  []OptionItem `json:"locations"`
}
