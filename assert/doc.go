// Package assert provides fluent checks over executor results.
//
// A chain collects every failure rather than stopping at the first, so one
// assertion run reports everything wrong with a response:
//
//	err := assert.That(res).
//	    Status(200).
//	    HeaderEquals("Content-Type", "application/json").
//	    JSONField("order.status", "shipped").
//	    Err()
package assert
