// Package main provides the entry point of complyhub, the backend of a
// compliance and inspection tracking application. It serves a JSON API over
// users, roles, groups and system functions using the Fiber framework and gorm,
// and authorizes every request by walking the caller's group, role and
// privilege assignments inside the caller's company.
package main
