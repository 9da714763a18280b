// Package models holds the wire types shared by the REST backend, the web
// front and the admin console. JSON tags follow the camelCase contract of
// the /api endpoints.
package models
