package main

import "net"

// localIPv4 returns the first non-loopback IPv4 address of an interface that
// is up.
func localIPv4() ([4]byte, bool) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return [4]byte{}, false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip, ok := firstIPv4(addrs); ok {
			return ip, true
		}
	}
	return [4]byte{}, false
}

func firstIPv4(addrs []net.Addr) ([4]byte, bool) {
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return [4]byte{v4[0], v4[1], v4[2], v4[3]}, true
		}
	}
	return [4]byte{}, false
}
