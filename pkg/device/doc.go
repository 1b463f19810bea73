// Package device implements the sensor side of the link.
//
// Transport owns the link during a session. It answers WhoAreYou and Ping
// inline, forwards every other host message to Queues.Incoming, and writes
// whatever the application logic produces on Queues.Outgoing. Device runs
// one Transport session after another as the link connects and
// disconnects.
package device
