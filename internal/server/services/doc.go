// Package services contains the business logic of the portfolio backend:
// admin authentication, projects with their tags and media, the contact
// inbox, tags and the site settings. Services are transport-agnostic; they
// return sentinel errors from package common and *common.ValidationError.
package services
