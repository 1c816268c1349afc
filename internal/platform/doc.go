// Package platform wraps operating-system specific actions: Steam
// client process control and opening paths in the system file manager.
package platform
