package rules

import (
	"fmt"

	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// Shared absence messages.
const (
	msgNoSNMP   = "SNMP NÃO configurado!"
	msgNoSyslog = "Syslog NÃO configurado!"
)

func snmpRule(prefix string) Rule {
	return Rule{
		ID:          prefix + ".snmp",
		Name:        "SNMP configurado",
		Kind:        fortiparse.KindSNMP,
		Severity:    SeverityMedium,
		Remediation: "Configure config system snmp with SNMPv3 users or restricted communities.",
		Check:       Absent(msgNoSNMP),
	}
}

func syslogRule(prefix string) Rule {
	return Rule{
		ID:          prefix + ".syslog",
		Name:        "Syslog configurado",
		Kind:        fortiparse.KindSyslog,
		Severity:    SeverityHigh,
		Remediation: "Forward logs with config log syslogd setting to a central collector.",
		Check:       Absent(msgNoSyslog),
	}
}

// SwitchRules returns the FortiSwitch check catalog.
func SwitchRules() []Rule {
	return []Rule{
		{
			ID:          "switch.vlan",
			Name:        "VLANs configuradas",
			Kind:        fortiparse.KindVLAN,
			Severity:    SeverityHigh,
			Remediation: "Segment traffic into dedicated VLANs and stop carrying users on the default VLAN.",
			Check: All(
				Absent("Nenhuma VLAN configurada."),
				Forbid("default", "VLAN default em uso"),
			),
		},
		{
			ID:          "switch.port",
			Name:        "Portas trunk/tag",
			Kind:        fortiparse.KindPort,
			Severity:    SeverityMedium,
			Remediation: "Set ports to trunk mode or tag their VLANs explicitly.",
			Check:       RequireAny("Porta sem trunk/tag", "trunk", "tagged"),
		},
		{
			ID:          "switch.mac_security",
			Name:        "MAC security",
			Kind:        fortiparse.KindMACSecurity,
			Severity:    SeverityMedium,
			Remediation: "Enable config mac-security to limit learned addresses per port.",
			Check:       Absent("MAC security não configurado."),
		},
		{
			ID:          "switch.bpdu_guard",
			Name:        "BPDU Guard",
			Kind:        fortiparse.KindBPDUGuard,
			Severity:    SeverityHigh,
			Remediation: "Enable config bpdu-guard on edge ports.",
			Check:       Absent("BPDU Guard não configurado."),
		},
		{
			ID:          "switch.auth",
			Name:        "Autenticação 802.1X/RADIUS",
			Kind:        fortiparse.KindAuth,
			Severity:    SeverityCritical,
			Remediation: "Configure 802.1X port authentication against a RADIUS server.",
			Check:       Absent("Autenticação 802.1X/RADIUS não configurada."),
		},
		snmpRule("switch"),
		syslogRule("switch"),
	}
}

// WirelessRules returns the wireless-controller check catalog.
func WirelessRules() []Rule {
	return []Rule{
		{
			ID:          "wireless.ssid",
			Name:        "SSIDs configurados",
			Kind:        fortiparse.KindSSID,
			Severity:    SeverityCritical,
			Remediation: "Remove open SSIDs or move them behind a captive portal on an isolated VLAN.",
			Check: All(
				Absent("Nenhum SSID configurado."),
				Forbid("open", "SSID aberto detectado"),
			),
		},
		{
			ID:          "wireless.security",
			Name:        "Segurança WPA2/WPA3",
			Kind:        fortiparse.KindSecurity,
			Severity:    SeverityCritical,
			Remediation: "Use wpa2-only-enterprise or wpa3 security modes on every network.",
			Check: All(
				Absent("Nenhuma política de segurança Wi-Fi configurada."),
				RequireAny("Rede sem WPA2/WPA3", "wpa2", "wpa3"),
			),
		},
		{
			ID:          "wireless.radio",
			Name:        "Radios configurados",
			Kind:        fortiparse.KindRadio,
			Severity:    SeverityLow,
			Remediation: "Declare radio profiles explicitly instead of relying on defaults.",
			Check:       Absent("Nenhum radio configurado."),
		},
		{
			ID:          "wireless.guest",
			Name:        "Rede guest",
			Kind:        fortiparse.KindGuest,
			Severity:    SeverityMedium,
			Remediation: "Provide a separate guest network isolated from corporate traffic.",
			Check:       Absent("Rede guest não configurada."),
		},
		{
			ID:          "wireless.vlan",
			Name:        "VLAN Wi-Fi",
			Kind:        fortiparse.KindVLAN,
			Severity:    SeverityMedium,
			Remediation: "Map wireless networks onto dedicated VLANs.",
			Check:       Absent("VLAN Wi-Fi não configurada."),
		},
		snmpRule("wireless"),
		syslogRule("wireless"),
	}
}

// RegistryFor builds the registry of d.
func RegistryFor(d fortiparse.Dialect) (*Registry, error) {
	switch d {
	case fortiparse.DialectSwitch:
		return NewRegistry(d, SwitchRules()...)
	case fortiparse.DialectWireless:
		return NewRegistry(d, WirelessRules()...)
	default:
		return nil, fmt.Errorf("%w: %q", fortiparse.ErrUnknownDialect, string(d))
	}
}
