// Package link abstracts the packet-oriented duplex link between the
// sensor and the host.
//
// Each ReadPacket returns exactly one frame and each WritePacket sends
// exactly one frame. Links which only carry a raw byte stream are wrapped
// by package stream to add framing.
package link
