// Package token mints short-lived signed JWTs for bearer-auth test
// scenarios, and parses them back on the stub side to verify what the
// executor actually sent.
package token
