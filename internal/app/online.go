package app

import "net"

// InterfaceUp reports whether a non-loopback interface is up with an address.
func InterfaceUp() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
