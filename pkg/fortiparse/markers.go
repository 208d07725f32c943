package fortiparse

import "fmt"

// SectionKind tags a block with the configuration concept it came from.
// Kinds are scoped to a dialect; both dialects happen to share a few names.
type SectionKind string

// Switch section kinds.
const (
	KindVLAN        SectionKind = "vlan"
	KindPort        SectionKind = "port"
	KindAuth        SectionKind = "auth"
	KindSNMP        SectionKind = "snmp"
	KindSyslog      SectionKind = "syslog"
	KindMACSecurity SectionKind = "mac_security"
	KindBPDUGuard   SectionKind = "bpdu_guard"
)

// Wireless section kinds. vlan, snmp and syslog are shared with the switch
// dialect.
const (
	KindSSID     SectionKind = "ssid"
	KindSecurity SectionKind = "security"
	KindRadio    SectionKind = "radio"
	KindGuest    SectionKind = "guest"
)

// EndToken closes the section that is currently being captured.
const EndToken = "end"

// Marker maps a line prefix to the section it opens.
type Marker struct {
	Prefix string
	Kind   SectionKind
}

// MarkerTable is the ordered marker list of one dialect. The first marker
// whose prefix matches a line wins.
type MarkerTable struct {
	Dialect Dialect
	Markers []Marker
}

// SwitchMarkers returns the FortiSwitch marker table.
func SwitchMarkers() MarkerTable {
	return MarkerTable{
		Dialect: DialectSwitch,
		Markers: []Marker{
			{Prefix: "config vlan", Kind: KindVLAN},
			{Prefix: "config port", Kind: KindPort},
			{Prefix: "config authentication", Kind: KindAuth},
			{Prefix: "config system snmp", Kind: KindSNMP},
			{Prefix: "config log syslogd", Kind: KindSyslog},
			{Prefix: "config mac-security", Kind: KindMACSecurity},
			{Prefix: "config bpdu-guard", Kind: KindBPDUGuard},
		},
	}
}

// WirelessMarkers returns the wireless-controller marker table.
func WirelessMarkers() MarkerTable {
	return MarkerTable{
		Dialect: DialectWireless,
		Markers: []Marker{
			{Prefix: "config wireless-controller vap", Kind: KindSSID},
			{Prefix: "config wireless-controller security", Kind: KindSecurity},
			{Prefix: "config wireless-controller radio", Kind: KindRadio},
			{Prefix: "config wireless-controller vlan", Kind: KindVLAN},
			{Prefix: "config guest", Kind: KindGuest},
			{Prefix: "config system snmp", Kind: KindSNMP},
			{Prefix: "config log syslogd", Kind: KindSyslog},
		},
	}
}

// MarkersFor returns the marker table of d.
func MarkersFor(d Dialect) (MarkerTable, error) {
	switch d {
	case DialectSwitch:
		return SwitchMarkers(), nil
	case DialectWireless:
		return WirelessMarkers(), nil
	default:
		return MarkerTable{}, fmt.Errorf("%w: %q", ErrUnknownDialect, string(d))
	}
}

// Kinds returns the table's section kinds in declaration order, without
// duplicates.
func (t MarkerTable) Kinds() []SectionKind {
	seen := make(map[SectionKind]bool, len(t.Markers))
	kinds := make([]SectionKind, 0, len(t.Markers))
	for _, m := range t.Markers {
		if seen[m.Kind] {
			continue
		}
		seen[m.Kind] = true
		kinds = append(kinds, m.Kind)
	}
	return kinds
}
