package sound

// CatalogEntry is one built-in sound. Name is the only identifier that
// reaches the store or the user; Asset is the bundled file name resolved
// against the configured sounds directory.
type CatalogEntry struct {
	ID    string
	Name  string
	Asset string
}

// Catalog is the fixed, ordered set of built-in sounds, defined at build
// time and never user-mutable.
var Catalog = []CatalogEntry{
	{ID: "1", Name: "Anime Wow", Asset: "Animewow.mp3"},
	{ID: "2", Name: "Bird", Asset: "Bird.mp3"},
	{ID: "3", Name: "Birds Chirping", Asset: "BirdsChirping.mp3"},
	{ID: "4", Name: "Die With A Smile", Asset: "DieWithASmile.mp3"},
	{ID: "5", Name: "Gun Shot", Asset: "GunShot.mp3"},
	{ID: "6", Name: "iPhone 16 Pro Max", Asset: "Iphone16ProMaxRingtone.mp3"},
	{ID: "7", Name: "Money Heist", Asset: "IphoneMoneyHeistRingtone.mp3"},
	{ID: "8", Name: "JARVIS Alarm", Asset: "jarvisalarm.mp3"},
	{ID: "9", Name: "Minions Wakeup", Asset: "minionswakeup.mp3"},
	{ID: "10", Name: "Retro Game Alarm", Asset: "mixkitretrogameemergencyalarm.wav"},
	{ID: "11", Name: "One Love", Asset: "OneLove.mp3"},
	{ID: "12", Name: "Simple Notification", Asset: "simplenotification.mp3"},
	{ID: "13", Name: "Vine Boom", Asset: "vineboom.mp3"},
}

// Names returns the catalog names in their fixed order.
func Names() []string {
	out := make([]string, 0, len(Catalog))
	for _, entry := range Catalog {
		out = append(out, entry.Name)
	}
	return out
}
