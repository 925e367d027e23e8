package geoserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featureTypeSchemaDoc = `<?xml version="1.0" encoding="UTF-8"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"
    xmlns:gml="http://www.opengis.net/gml" xmlns:geodata="http://geodata.org">
  <xsd:import namespace="http://www.opengis.net/gml"/>
  <xsd:complexType name="rivers_2020Type">
    <xsd:complexContent>
      <xsd:extension base="gml:AbstractFeatureType">
        <xsd:sequence>
          <xsd:element maxOccurs="1" minOccurs="0" name="the_geom" nillable="true" type="gml:MultiLineStringPropertyType"/>
          <xsd:element maxOccurs="1" minOccurs="0" name="name" nillable="true" type="xsd:string"/>
          <xsd:element maxOccurs="1" minOccurs="0" name="elevation" nillable="true" type="xsd:double"/>
          <xsd:element maxOccurs="1" minOccurs="0" name="id" nillable="true" type="xsd:int"/>
        </xsd:sequence>
      </xsd:extension>
    </xsd:complexContent>
  </xsd:complexType>
  <xsd:element name="rivers_2020" substitutionGroup="gml:_Feature" type="geodata:rivers_2020Type"/>
</xsd:schema>`

func TestParseFeatureTypeSchema(t *testing.T) {
	fields, err := parseFeatureTypeSchema([]byte(featureTypeSchemaDoc))
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Equal(t, SchemaField{Name: "the_geom", Type: "gml:MultiLineStringPropertyType"}, fields[0])
	assert.Equal(t, SchemaField{Name: "name", Type: "xsd:string"}, fields[1])
	assert.Equal(t, SchemaField{Name: "elevation", Type: "xsd:double"}, fields[2])
	assert.Equal(t, SchemaField{Name: "id", Type: "xsd:int"}, fields[3])
}

func TestParseFeatureTypeSchemaMalformed(t *testing.T) {
	_, err := parseFeatureTypeSchema([]byte("<unclosed"))
	assert.Error(t, err)
}

const coverageDescriptionDoc = `<?xml version="1.0" encoding="UTF-8"?>
<wcs:CoverageDescriptions xmlns:wcs="http://www.opengis.net/wcs/1.1.1"
    xmlns:gml="http://www.opengis.net/gml">
  <wcs:CoverageDescription>
    <wcs:Domain>
      <wcs:SpatialDomain>
        <wcs:GridCRS/>
        <gml:GridEnvelope>
          <gml:low>0 0</gml:low>
          <gml:high>511 255</gml:high>
        </gml:GridEnvelope>
      </wcs:SpatialDomain>
    </wcs:Domain>
    <wcs:Range>
      <wcs:Field>
        <wcs:Axis identifier="Bands">
          <wcs:AvailableKeys>
            <wcs:Key>GRAY_INDEX</wcs:Key>
            <wcs:Key>ALPHA_BAND</wcs:Key>
          </wcs:AvailableKeys>
        </wcs:Axis>
      </wcs:Field>
    </wcs:Range>
  </wcs:CoverageDescription>
</wcs:CoverageDescriptions>`

func TestParseCoverageAxes(t *testing.T) {
	fields, err := parseCoverageAxes([]byte(coverageDescriptionDoc))
	require.NoError(t, err)
	require.Len(t, fields, 2)

	assert.Equal(t, SchemaField{Name: "GRAY_INDEX", Type: "raster"}, fields[0])
	assert.Equal(t, SchemaField{Name: "ALPHA_BAND", Type: "raster"}, fields[1])
}

func TestParseGridExtent(t *testing.T) {
	extent, err := parseGridExtent([]byte(coverageDescriptionDoc))
	require.NoError(t, err)
	assert.Equal(t, []int{512, 256}, extent)
}

func TestParseGridExtentMisaligned(t *testing.T) {
	doc := `<root><GridEnvelope><low>0</low><high>10 20</high></GridEnvelope></root>`
	_, err := parseGridExtent([]byte(doc))
	assert.Error(t, err)
}
