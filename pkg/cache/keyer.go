package cache

import "strconv"

// Keyer derives cache keys.
type Keyer interface {
	// SceneKey addresses a scene document by content hash.
	SceneKey(sceneHash string) string
	// ArtifactKey addresses one rendered format of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every render option that changes the output bytes.
type ArtifactKeyOpts struct {
	Format  string
	Width   float64
	Height  float64
	Theme   string
	Grid    bool
	Minimap bool
	Scale   float64
}

// fields returns the options in a fixed order for hashing.
func (o ArtifactKeyOpts) fields() []string {
	num := func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
	return []string{
		o.Format, num(o.Width), num(o.Height), o.Theme,
		strconv.FormatBool(o.Grid), strconv.FormatBool(o.Minimap), num(o.Scale),
	}
}

// DefaultKeyer produces "scene:<hash>" and "artifact:<format>:<digest>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SceneKey(sceneHash string) string {
	return "scene:" + sceneHash
}

// ArtifactKey keeps the format readable so backends can be inspected by
// hand.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + opts.Format + ":" + digest(append([]string{sceneHash}, opts.fields()...)...)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = ScopedKeyer{}
)

// ScopedKeyer prefixes every key of an inner [Keyer], letting the CLI and
// the HTTP server share one backend.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer scopes inner, or the default scheme when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) SceneKey(sceneHash string) string {
	return k.Prefix + k.Inner.SceneKey(sceneHash)
}

func (k ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(sceneHash, opts)
}
