// Package services holds the admin use cases shared by the web back-office
// and the console: the dashboard summary, inbox and project bulk actions,
// and console login bookkeeping.
package services
