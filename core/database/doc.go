// Package database manages the relational store connection.
//
// Connect returns a *gorm.DB for the configured driver. The production
// deployment runs against MySQL with a bounded connection pool; tests connect
// to an in-memory sqlite database through the same entry point so the storage
// code is exercised against a real SQL engine.
package database
