package rules

import (
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// Registry groups block types into the categories placement rules are
// built from.
type Registry struct {
	Root       []tree.Type `yaml:"root" json:"root"`
	Atoms      []tree.Type `yaml:"atoms" json:"atoms"`
	Molecules  []tree.Type `yaml:"molecules" json:"molecules"`
	Organisms  []tree.Type `yaml:"organisms" json:"organisms"`
	Overlays   []tree.Type `yaml:"overlays" json:"overlays"`
	Layouts    []tree.Type `yaml:"layouts" json:"layouts"`
	Containers []tree.Type `yaml:"containers" json:"containers"`
	// Tabbed lists container kinds whose children are split across tabs and
	// carry a slotKey attribute.
	Tabbed []tree.Type `yaml:"tabbed" json:"tabbed"`
	// Parents declares, per container kind, the sub-container kinds it may
	// hold in addition to CONTENT.
	Parents map[tree.Type][]tree.Type `yaml:"parents" json:"parents"`
}

var layoutKinds = []tree.Type{
	tree.TypeMultiColumn, tree.TypeStackFlex, tree.TypeGrid,
	tree.TypeCarouselContainer, tree.TypeTabsAccordionContainer, tree.TypeTabs,
}

// DefaultRegistry returns the built-in component registry.
func DefaultRegistry() Registry {
	sectionChildren := append(slices.Clone(layoutKinds), tree.TypeDataset, tree.TypeRepeater, tree.TypeBind)
	nested := append(slices.Clone(layoutKinds), tree.TypeRepeater, tree.TypeBind)

	return Registry{
		Root: []tree.Type{tree.TypeSection, tree.TypeCanvas},
		Atoms: []tree.Type{
			tree.TypeText, tree.TypeImage, tree.TypeButton, tree.TypeDivider,
			tree.TypeSpacer, tree.TypeVideo, tree.TypeIcon, tree.TypeCustomHTML,
		},
		Molecules: []tree.Type{
			tree.TypeImageSlider, tree.TypeGallery, tree.TypeReviewsCarousel,
			tree.TypeTestimonialSlider, tree.TypeProductCarousel, tree.TypeContactForm,
			tree.TypeNewsletterSignup, tree.TypeSocialLinks, tree.TypeCountdownTimer,
			tree.TypeFAQBlock,
		},
		Organisms: []tree.Type{
			tree.TypeHeaderSection, tree.TypeFooterSection, tree.TypeHeroBanner,
			tree.TypeProductGrid, tree.TypeBlogListing, tree.TypeMapBlock,
			tree.TypePricingTable,
		},
		Overlays:   []tree.Type{tree.TypePopupModal, tree.TypeStickyCTA, tree.TypeCookieBanner},
		Layouts:    slices.Clone(layoutKinds),
		Containers: []tree.Type{tree.TypeSection, tree.TypeCanvas, tree.TypeDataset, tree.TypeRepeater, tree.TypeBind},
		Tabbed:     []tree.Type{tree.TypeTabs, tree.TypeTabsAccordionContainer},
		Parents: map[tree.Type][]tree.Type{
			tree.TypeSection:                sectionChildren,
			tree.TypeCanvas:                 slices.Clone(sectionChildren),
			tree.TypeMultiColumn:            slices.Clone(nested),
			tree.TypeStackFlex:              slices.Clone(nested),
			tree.TypeGrid:                   slices.Clone(nested),
			tree.TypeTabsAccordionContainer: slices.Clone(nested),
			tree.TypeTabs:                   slices.Clone(nested),
			tree.TypeDataset:                {tree.TypeRepeater, tree.TypeBind},
			tree.TypeRepeater:               {tree.TypeBind},
		},
	}
}

// Validate reports registry entries that name unknown block types and
// declared parents that are not registered as containers or layouts.
func (r Registry) Validate() error {
	groups := []struct {
		name  string
		types []tree.Type
	}{
		{"root", r.Root}, {"atoms", r.Atoms}, {"molecules", r.Molecules},
		{"organisms", r.Organisms}, {"overlays", r.Overlays}, {"layouts", r.Layouts},
		{"containers", r.Containers}, {"tabbed", r.Tabbed},
	}
	for _, g := range groups {
		for _, t := range g.types {
			if !t.Valid() {
				return fmt.Errorf("%s: %w %q", g.name, tree.ErrUnknownType, t)
			}
		}
	}
	for parent, children := range r.Parents {
		if !slices.Contains(r.Layouts, parent) && !slices.Contains(r.Containers, parent) {
			return fmt.Errorf("parents: %q is not a registered container or layout", parent)
		}
		for _, t := range children {
			if !t.Valid() {
				return fmt.Errorf("parents.%s: %w %q", parent, tree.ErrUnknownType, t)
			}
		}
	}
	return nil
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Registry{}, err
	}
	defer f.Close()

	return ParseRegistry(f)
}

// ParseRegistry reads a YAML registry and validates it.
func ParseRegistry(r io.Reader) (Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Registry{}, err
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("parse registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return Registry{}, err
	}
	return reg, nil
}
