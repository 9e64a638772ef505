package closet

// DrawerSettings holds per-drawer display preferences. These are persisted
// inside the drawer's encrypted content; the container itself never leaks
// them.
type DrawerSettings struct {
	HideValues    bool
	OpenAllValues bool
}

const (
	settingsFlagHideValues    byte = 1 << 0
	settingsFlagOpenAllValues byte = 1 << 1
)

func (s DrawerSettings) encode() byte {
	var b byte
	if s.HideValues {
		b |= settingsFlagHideValues
	}
	if s.OpenAllValues {
		b |= settingsFlagOpenAllValues
	}
	return b
}

func decodeSettings(b byte) DrawerSettings {
	return DrawerSettings{
		HideValues:    b&settingsFlagHideValues != 0,
		OpenAllValues: b&settingsFlagOpenAllValues != 0,
	}
}
