package fortiparse

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleVLANBlock(t *testing.T) {
	doc := Parse([]string{"config vlan 10", "description test default", "end"}, SwitchMarkers())

	assert.Equal(t, []string{"description test default"}, doc.Blocks(KindVLAN))
	assert.Equal(t, 1, doc.Total())
}

func TestParse_UnterminatedBlockIsDropped(t *testing.T) {
	doc := Parse([]string{"config vlan 10", "description x"}, SwitchMarkers())

	assert.Empty(t, doc.Blocks(KindVLAN))
	assert.Zero(t, doc.Total())
}

func TestParse_NestedStartDiscardsOpenBuffer(t *testing.T) {
	doc := Parse([]string{"config vlan 10", "a", "config port 1", "b", "end"}, SwitchMarkers())

	assert.Empty(t, doc.Blocks(KindVLAN))
	assert.Equal(t, []string{"b"}, doc.Blocks(KindPort))
}

func TestParse_NestedStartSameKind(t *testing.T) {
	doc := Parse([]string{"config vlan 10", "a", "config vlan 20", "b", "end"}, SwitchMarkers())

	assert.Equal(t, []string{"b"}, doc.Blocks(KindVLAN))
}

func TestParse_LinesOutsideSectionsAreDropped(t *testing.T) {
	lines := []string{
		"#config-version=FSW",
		"set hostname sw01",
		"config vlan 10",
		"set vlanid 10",
		"end",
		"set stray yes",
		"end",
	}
	doc := Parse(lines, SwitchMarkers())

	assert.Equal(t, []string{"set vlanid 10"}, doc.Blocks(KindVLAN))
	for _, s := range doc.Sections() {
		for _, b := range s.Blocks {
			assert.NotContains(t, b, "hostname")
			assert.NotContains(t, b, "stray")
		}
	}
}

func TestParse_EmptySectionProducesNoBlock(t *testing.T) {
	doc := Parse([]string{"config system snmp", "end"}, SwitchMarkers())

	assert.Empty(t, doc.Blocks(KindSNMP))
}

func TestParse_StripsWhitespaceAndJoinsLines(t *testing.T) {
	lines := []string{
		"  config port 1  ",
		"\tset mode trunk",
		"    set allowed-vlans 10-20   ",
		"  end\r",
	}
	doc := Parse(lines, SwitchMarkers())

	assert.Equal(t, []string{"set mode trunk\nset allowed-vlans 10-20"}, doc.Blocks(KindPort))
}

func TestParse_BlankLinesInsideSectionAreKept(t *testing.T) {
	doc := Parse([]string{"config log syslogd setting", "", "end"}, SwitchMarkers())

	assert.Equal(t, []string{""}, doc.Blocks(KindSyslog))
}

func TestParse_BlocksKeepCommitOrder(t *testing.T) {
	lines := []string{
		"config vlan 10", "name first", "end",
		"config port 1", "set mode trunk", "end",
		"config vlan 20", "name second", "end",
	}
	doc := Parse(lines, SwitchMarkers())

	assert.Equal(t, []string{"name first", "name second"}, doc.Blocks(KindVLAN))
	assert.Equal(t, []string{"set mode trunk"}, doc.Blocks(KindPort))
}

func TestParse_UnmatchedTerminatorIsIgnored(t *testing.T) {
	doc := Parse([]string{"end", "end", "config guest", "set enabled", "end"}, WirelessMarkers())

	assert.Equal(t, []string{"set enabled"}, doc.Blocks(KindGuest))
}

func TestParse_WirelessDialect(t *testing.T) {
	doc := Parse([]string{"config wireless-controller vap 1", "ssid corp-open", "end"}, WirelessMarkers())

	assert.Equal(t, DialectWireless, doc.Dialect())
	assert.Equal(t, []string{"ssid corp-open"}, doc.Blocks(KindSSID))
	assert.Empty(t, doc.Blocks(KindSecurity))
}

func TestParse_FirstMatchingPrefixWins(t *testing.T) {
	table := MarkerTable{
		Dialect: DialectSwitch,
		Markers: []Marker{
			{Prefix: "config vlan", Kind: KindVLAN},
			{Prefix: "config vlan 10", Kind: KindPort},
		},
	}
	doc := Parse([]string{"config vlan 10", "x", "end"}, table)

	assert.Equal(t, []string{"x"}, doc.Blocks(KindVLAN))
	assert.Empty(t, doc.Blocks(KindPort))
}

func TestParse_EmptyInputs(t *testing.T) {
	doc := Parse(nil, SwitchMarkers())
	assert.Equal(t, SwitchMarkers().Kinds(), doc.Kinds())
	assert.Zero(t, doc.Total())

	doc = Parse([]string{"config vlan 1", "x", "end"}, MarkerTable{})
	assert.Empty(t, doc.Kinds())
	assert.Zero(t, doc.Total())
}

func TestParse_PairCountMatchesBlockCount(t *testing.T) {
	table := SwitchMarkers()
	want := map[SectionKind]int{}
	var lines []string
	for i := 0; i < 40; i++ {
		m := table.Markers[(i*5)%len(table.Markers)]
		lines = append(lines, fmt.Sprintf("%s %d", m.Prefix, i), fmt.Sprintf("set id %d", i), EndToken)
		want[m.Kind]++
	}

	doc := Parse(lines, table)
	for _, k := range table.Kinds() {
		assert.Equal(t, want[k], doc.Count(k), "kind %s", k)
	}
}

func TestParse_Idempotent(t *testing.T) {
	lines := strings.Split(sampleSwitchConfig, "\n")

	first := Parse(lines, SwitchMarkers())
	second := Parse(lines, SwitchMarkers())

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Sections(), second.Sections())
}

func TestDocument_AccessorsReturnCopies(t *testing.T) {
	doc := Parse([]string{"config vlan 10", "name a", "end"}, SwitchMarkers())

	blocks := doc.Blocks(KindVLAN)
	blocks[0] = "mutated"
	kinds := doc.Kinds()
	kinds[0] = "mutated"

	assert.Equal(t, []string{"name a"}, doc.Blocks(KindVLAN))
	assert.Equal(t, KindVLAN, doc.Kinds()[0])
	assert.Empty(t, doc.Blocks("unknown"))
}

func TestDocument_Equal(t *testing.T) {
	a := Parse([]string{"config vlan 10", "name a", "end"}, SwitchMarkers())
	b := Parse([]string{"config vlan 10", "name b", "end"}, SwitchMarkers())
	w := Parse([]string{"config wireless-controller vlan", "name a", "end"}, WirelessMarkers())

	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(w))
	assert.False(t, a.Equal(nil))
	var nilDoc *Document
	assert.True(t, nilDoc.Equal(nil))
}

func TestParseReader_DropsInvalidUTF8(t *testing.T) {
	input := "config system snmp\nset description \"core\xff\xfe sw\"\nend\n"

	doc, err := ParseReader(strings.NewReader(input), SwitchMarkers())
	require.NoError(t, err)
	assert.Equal(t, []string{"set description \"core sw\""}, doc.Blocks(KindSNMP))
}

func FuzzParse(f *testing.F) {
	f.Add(sampleSwitchConfig)
	f.Add("config vlan 10\nend\nend\nconfig port")
	f.Add("")
	f.Fuzz(func(t *testing.T, input string) {
		lines := strings.Split(input, "\n")
		first := Parse(lines, SwitchMarkers())
		second := Parse(lines, SwitchMarkers())
		if !first.Equal(second) {
			t.Fatalf("parse is not deterministic for %q", input)
		}
		ends := 0
		for _, l := range lines {
			if strings.TrimSpace(l) == EndToken {
				ends++
			}
		}
		if first.Total() > ends {
			t.Fatalf("committed %d blocks with only %d terminators", first.Total(), ends)
		}
	})
}

const sampleSwitchConfig = `#config-version=FSW-524D
config system global
    set hostname "sw-core-01"
end
config vlan 10
    set description "users"
end
config vlan 1
    set description "default"
end
config port 1
    set mode trunk
end
config port 2
    set mode access
end
config authentication radius
    set server 10.0.0.5
end
config system snmp community
    edit 1
        set name "monitor"
    next
end
config log syslogd setting
    set status enable
end
config mac-security
    set limit 4
end
config bpdu-guard
    set status enable
end`
