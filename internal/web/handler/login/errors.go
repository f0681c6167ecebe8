// Package login issues access tokens for username or email and password.
package login

// DetailInvalidCredentials is returned when the login name is unknown, the user
// is inactive or the password does not match.
const DetailInvalidCredentials = "Incorrect username/email or password"
