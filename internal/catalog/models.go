package catalog

import (
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Models is a list of all the structs exported here which represent
// tables in the database schema.
var Models = []interface{}{
	&CatalogInfo{},
	&Entry{},
}

// FramePixel marks entries whose center is in pixel coordinates rather
// than a celestial frame.
const FramePixel = "pixel"

// CatalogInfo contains information about the catalog instance.
type CatalogInfo struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:127"`
	Description string `json:"description" gorm:"size:255"`
}

func (*CatalogInfo) TableName() string {
	return "catalog_infos"
}

// Entry is the stored form of a circular region. The center is kept as
// a geometry point in WKB, which both Postgres and SQLite can round-trip
// through the type's inherent Scan function.
type Entry struct {
	gorm.Model
	Name        string         `json:"name" gorm:"size:127;index:idx_entry_name"`
	Frame       string         `json:"frame" gorm:"size:32"`
	Center      geom.Point     `json:"center"`
	RadiusValue float64        `json:"radiusValue"`
	RadiusUnit  string         `json:"radiusUnit" gorm:"size:16"`
	Meta        datatypes.JSON `json:"meta"`
	Visual      datatypes.JSON `json:"visual"`
}

func (*Entry) TableName() string {
	return "entries"
}
