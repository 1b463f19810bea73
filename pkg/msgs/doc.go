// Package msgs provides the sensor link protocol and all message schemas.
package msgs

// The sensor link protocol is communicated between the sensor firmware
// and a host computer over a packet-oriented duplex link (e.g. USB CDC).
// Every frame carries exactly one message. A message is encoded as its
// type ID (a varint discriminant) followed by the fixed-shape payload of
// that variant. There is no length field, checksum or sequence number: the
// link delivers framed packets, and a single request/reply is the only
// correlation between both directions.
//
// Producer: sensor firmware (SensorMessage), host (HostMessage)
// Consumer: the opposite peer
