package tree

import "slices"

// Type is the block kind of a node. The set of types is closed; see [AllTypes].
type Type string

// Page-level and structural containers.
const (
	TypeSection                Type = "Section"
	TypeCanvas                 Type = "Canvas"
	TypeMultiColumn            Type = "MultiColumn"
	TypeStackFlex              Type = "StackFlex"
	TypeGrid                   Type = "Grid"
	TypeCarouselContainer      Type = "CarouselContainer"
	TypeTabsAccordionContainer Type = "TabsAccordionContainer"
	TypeTabs                   Type = "Tabs"
	TypeDataset                Type = "Dataset"
	TypeRepeater               Type = "Repeater"
	TypeBind                   Type = "Bind"
)

// Atomic widgets.
const (
	TypeText       Type = "Text"
	TypeImage      Type = "Image"
	TypeButton     Type = "Button"
	TypeDivider    Type = "Divider"
	TypeSpacer     Type = "Spacer"
	TypeVideo      Type = "Video"
	TypeIcon       Type = "Icon"
	TypeCustomHTML Type = "CustomHtml"
)

// Composite widgets.
const (
	TypeImageSlider       Type = "ImageSlider"
	TypeGallery           Type = "Gallery"
	TypeReviewsCarousel   Type = "ReviewsCarousel"
	TypeTestimonialSlider Type = "TestimonialSlider"
	TypeProductCarousel   Type = "ProductCarousel"
	TypeContactForm       Type = "ContactForm"
	TypeNewsletterSignup  Type = "NewsletterSignup"
	TypeSocialLinks       Type = "SocialLinks"
	TypeCountdownTimer    Type = "CountdownTimer"
	TypeFAQBlock          Type = "FAQBlock"
)

// Structural (organism) widgets.
const (
	TypeHeaderSection Type = "HeaderSection"
	TypeFooterSection Type = "FooterSection"
	TypeHeroBanner    Type = "HeroBanner"
	TypeProductGrid   Type = "ProductGrid"
	TypeBlogListing   Type = "BlogListing"
	TypeMapBlock      Type = "MapBlock"
	TypePricingTable  Type = "PricingTable"
)

// Overlay widgets.
const (
	TypePopupModal   Type = "PopupModal"
	TypeStickyCTA    Type = "StickyCTA"
	TypeCookieBanner Type = "CookieBanner"
)

var allTypes = []Type{
	TypeSection, TypeCanvas, TypeMultiColumn, TypeStackFlex, TypeGrid,
	TypeCarouselContainer, TypeTabsAccordionContainer, TypeTabs,
	TypeDataset, TypeRepeater, TypeBind,

	TypeText, TypeImage, TypeButton, TypeDivider, TypeSpacer, TypeVideo,
	TypeIcon, TypeCustomHTML,

	TypeImageSlider, TypeGallery, TypeReviewsCarousel, TypeTestimonialSlider,
	TypeProductCarousel, TypeContactForm, TypeNewsletterSignup,
	TypeSocialLinks, TypeCountdownTimer, TypeFAQBlock,

	TypeHeaderSection, TypeFooterSection, TypeHeroBanner, TypeProductGrid,
	TypeBlogListing, TypeMapBlock, TypePricingTable,

	TypePopupModal, TypeStickyCTA, TypeCookieBanner,
}

// AllTypes returns every known block type in declaration order.
// The returned slice is a copy and may be modified.
func AllTypes() []Type { return slices.Clone(allTypes) }

// Valid reports whether t is a member of the closed type enumeration.
func (t Type) Valid() bool { return slices.Contains(allTypes, t) }

// String returns the type name.
func (t Type) String() string { return string(t) }

// ParentKind identifies a drop target for placement-rule lookups: either
// [RootKind] for the page surface or the type of a concrete parent node.
// Parent kinds are derived on demand and never stored in a tree.
type ParentKind string

// RootKind is the parent kind of top-level nodes.
const RootKind ParentKind = "ROOT"

// KindOf returns the parent kind for a container of type t.
func KindOf(t Type) ParentKind { return ParentKind(t) }

// IsRoot reports whether k is the page surface.
func (k ParentKind) IsRoot() bool { return k == RootKind }

// Viewport is an editor preview width class used for per-viewport visibility.
type Viewport string

// Viewports supported by the editor.
const (
	ViewportDesktop Viewport = "desktop"
	ViewportTablet  Viewport = "tablet"
	ViewportMobile  Viewport = "mobile"
)

// Valid reports whether v is a known viewport. The empty viewport is valid
// and means "no viewport filtering".
func (v Viewport) Valid() bool {
	switch v {
	case "", ViewportDesktop, ViewportTablet, ViewportMobile:
		return true
	}
	return false
}
