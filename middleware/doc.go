// Package middleware provides HTTP middleware that sits around the header
// model: a CSRF guard that checks a token carried in a request header, and a
// request-duration logging hook.
package middleware
