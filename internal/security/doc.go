// Package security holds the HTTP hardening middleware for the catalog:
// CSRF protection for form posts, security response headers, and cookie
// sessions used to carry flash messages between a POST and the next GET.
package security
