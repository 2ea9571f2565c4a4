// Package canusb talks to serial-attached CAN adapters speaking the LAWICEL
// ASCII command protocol (CANUSB, CAN232 and friends).
//
// A Client wraps a byte transport and drives one synchronous
// request/response exchange at a time. Init runs the fixed bring-up
// sequence, Transmit sends single frames, and ReadFrame/Monitor demultiplex
// the inbound byte stream into frames. ISO-TP segmentation for payloads
// larger than one frame lives in pkg/isotp.
package canusb
