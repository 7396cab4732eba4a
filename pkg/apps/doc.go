// Package apps contains small components used by the fiber command and
// in tests: a counter, a todo list and a page that combines them.
//
// Each component keeps its listeners in state so that they stay the same
// *host.Listener across renders. A click that changes only a count then
// updates only the text node that shows it.
package apps
