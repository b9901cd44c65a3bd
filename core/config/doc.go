// Package config loads the application configuration.
//
// Configuration comes from environment variables, optionally seeded by a
// .env file. Defaults are declared as struct tags on the partial configs
// (server, log, database, api, sync) and registered in Viper by reflection,
// so every key can be overridden through the environment using the
// SECTION_KEY naming scheme (e.g. SYNC_BATCH_SIZE, DATABASE_HOST).
package config
