// Package actions implements the operations behind the qmtg commands.
// Every action works against an Env holding the object store and the
// Scryfall agent, so commands stay thin and the operations stay testable.
package actions
