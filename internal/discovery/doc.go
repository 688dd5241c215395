// Package discovery announces and finds emulator debug servers over mDNS.
//
// A serving emulator registers the "_canemu._tcp" service in the "local."
// domain with TXT records "version=<v>" and "path=/ws". Tooling on the same
// network segment browses for that service to locate running emulators
// without knowing their address.
//
// # Usage Example
//
//	adv, err := discovery.Advertise("", srv.Port(), version.Version)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adv.Shutdown()
//
//	instances, err := discovery.NewScanner().Scan(ctx)
//	for _, inst := range instances {
//	    fmt.Println(inst.BaseURL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Firewall must allow mDNS (UDP port 5353)
package discovery
