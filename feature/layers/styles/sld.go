package styles

import (
	"strings"

	"geosync/core/geoserver"
)

// Palette cycled by the generator. The three sequences advance in lockstep,
// so the effective palette period is six.
var (
	foregrounds = []string{"#ffbbbb", "#bbffbb", "#bbbbff", "#ffffbb", "#bbffff", "#ffbbff"}
	backgrounds = []string{"#880000", "#008800", "#000088", "#888800", "#008888", "#880088"}
	marks       = []string{"square", "circle", "cross", "x", "triangle"}
)

// defaultStyleNames are the generic built-in styles the map server assigns
// when a layer is published without explicit symbology.
var defaultStyleNames = []string{"point", "line", "polygon", "raster"}

// IsDefaultStyleName reports whether name is one of the generic built-in
// styles.
func IsDefaultStyleName(name string) bool {
	for _, n := range defaultStyleNames {
		if name == n {
			return true
		}
	}
	return false
}

// punctuation the catalog's REST configuration cannot digest in style names.
var punctuationReplacer = strings.NewReplacer(":", "_", ".", "_")

// StyleName derives a catalog-safe style name from a resource's
// workspace-qualified name.
func StyleName(resource *geoserver.Resource) string {
	return punctuationReplacer.Replace(resource.QualifiedName())
}

// boilerplate wraps a single symbolizer in the elements required for a valid
// styling document applying it to all features.
func boilerplate(symbolizer string) string {
	return `<StyledLayerDescriptor version="1.0.0" xmlns="http://www.opengis.net/sld" xmlns:ogc="http://www.opengis.net/ogc"
  xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
  xsi:schemaLocation="http://www.opengis.net/sld http://schemas.opengis.net/sld/1.0.0/StyledLayerDescriptor.xsd">
  <NamedLayer>
    <Name>{name}</Name>
    <UserStyle>
    <Name>{name}</Name>
    <Title>{name}</Title>
      <FeatureTypeStyle>
        <Rule>
` + symbolizer + `
        </Rule>
      </FeatureTypeStyle>
    </UserStyle>
  </NamedLayer>
</StyledLayerDescriptor>
`
}

// Symbolizer snippets, interpolated with the palette placeholders.
const (
	rasterSymbolizer = `<RasterSymbolizer>
    <Opacity>1.0</Opacity>
</RasterSymbolizer>`

	polygonSymbolizer = `<PolygonSymbolizer>
  <Fill>
    <CssParameter name="fill">{bg}</CssParameter>
  </Fill>
  <Stroke>
    <CssParameter name="stroke">{fg}</CssParameter>
    <CssParameter name="stroke-width">0.7</CssParameter>
  </Stroke>
</PolygonSymbolizer>`

	lineSymbolizer = `<LineSymbolizer>
  <Stroke>
    <CssParameter name="stroke">{bg}</CssParameter>
    <CssParameter name="stroke-width">3</CssParameter>
  </Stroke>
</LineSymbolizer>
</Rule>
</FeatureTypeStyle>
<FeatureTypeStyle>
<Rule>
<LineSymbolizer>
  <Stroke>
    <CssParameter name="stroke">{fg}</CssParameter>
  </Stroke>
</LineSymbolizer>`

	pointSymbolizer = `<PointSymbolizer>
  <Graphic>
    <Mark>
      <WellKnownName>{mark}</WellKnownName>
      <Fill>
        <CssParameter name="fill">{bg}</CssParameter>
      </Fill>
      <Stroke>
        <CssParameter name="stroke">{fg}</CssParameter>
      </Stroke>
    </Mark>
    <Size>10</Size>
  </Graphic>
</PointSymbolizer>`
)

var styleTemplates = map[string]string{
	"raster":  boilerplate(rasterSymbolizer),
	"polygon": boilerplate(polygonSymbolizer),
	"line":    boilerplate(lineSymbolizer),
	"point":   boilerplate(pointSymbolizer),
}

// SLDGenerator produces styling documents from the cyclic palette. Each
// generated document consumes the next palette triple.
type SLDGenerator struct {
	next int
}

// NewSLDGenerator creates a generator starting at the first palette entry.
func NewSLDGenerator() *SLDGenerator {
	return &SLDGenerator{}
}

// nextContext returns the next (foreground, background, mark) triple.
func (g *SLDGenerator) nextContext() (fg, bg, mark string) {
	i := g.next
	g.next++
	return foregrounds[i%len(foregrounds)], backgrounds[i%len(backgrounds)], marks[i%len(marks)]
}

// SLDFor generates a styling document for layerName keyed by the current
// default style name. It reports false for a style name with no template.
func (g *SLDGenerator) SLDFor(layerName, styleName string) (string, bool) {
	tmpl, ok := styleTemplates[styleName]
	if !ok {
		return "", false
	}
	fg, bg, mark := g.nextContext()
	r := strings.NewReplacer("{name}", layerName, "{fg}", fg, "{bg}", bg, "{mark}", mark)
	return r.Replace(tmpl), true
}
