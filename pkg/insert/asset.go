package insert

import (
	"path"
	"strings"

	"github.com/matzehuels/pagebuilder/pkg/action"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// AssetKind selects the block created for an asset.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

var videoExts = []string{".mp4", ".webm", ".mov", ".ogg", ".ogv", ".m4v"}

// Asset is a media reference dropped or picked from the media library.
type Asset struct {
	URL  string    `json:"url" yaml:"url"`
	Alt  string    `json:"alt,omitempty" yaml:"alt,omitempty"`
	Kind AssetKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Type returns the block type for a. An empty kind is inferred from the
// URL's file extension.
func (a Asset) Type() tree.Type {
	kind := a.Kind
	if kind == "" {
		u := a.URL
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			u = u[:i]
		}
		kind = AssetImage
		ext := strings.ToLower(path.Ext(u))
		for _, v := range videoExts {
			if ext == v {
				kind = AssetVideo
				break
			}
		}
	}
	if kind == AssetVideo {
		return tree.TypeVideo
	}
	return tree.TypeImage
}

// Asset places an Image or Video block referencing a.URL at target.
func (in *Inserter) Asset(t tree.Tree, a Asset, target Target) Outcome {
	if err := perrors.ValidateURL(a.URL); err != nil {
		return rejected(err)
	}
	if a.Kind != "" && a.Kind != AssetImage && a.Kind != AssetVideo {
		return rejected(perrors.New(perrors.ErrCodeInvalidInput, "Unsupported asset kind %q", a.Kind))
	}

	out := in.Palette(t, a.Type(), target)
	if !out.OK() {
		return out
	}
	add := out.Actions[0].(action.Add)
	attrs := add.Component.NodeAttrs().Clone()
	attrs["src"] = a.URL
	if a.Alt != "" {
		attrs["alt"] = a.Alt
	}
	add.Component = tree.WithAttrs(add.Component, attrs)
	out.Actions[0] = add
	return out
}
