// Package assist exposes the filter and search primitives as JSON tools for
// a language-model caller.
//
// Tools returns the declarations (name, description, JSON Schema) a chat
// client advertises to the model. When the model asks for a tool, the client
// passes the name and raw JSON arguments to Dispatcher.Call and relays the
// JSON result back. Failures come back as {"error": "..."} so the model can
// correct its arguments.
//
// The chat client itself lives outside this module.
package assist
