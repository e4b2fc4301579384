// Package order contains the Order aggregate and its forward-only status machine.
//
// An order links a vendor, a customer and, once assigned, a delivery partner. Its
// status moves pending → assigned → in_transit → delivered and never back.
package order
