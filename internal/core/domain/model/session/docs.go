// Package session contains the DeliverySession aggregate: the live-tracking record of
// one order's delivery with the partner's current position and the full route walked
// so far.
package session
