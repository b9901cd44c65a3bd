// Package models defines the catalog domain types.
//
// There are two families: the ephemeral payload types decoded from the
// upstream feed (CatalogItem, MaterialData) together with their extraction
// rules, and the persisted GORM entities (Anime and its owned children plus
// the genre/person/studio reference tables).
package models
