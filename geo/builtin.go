package geo

var builtin = []Country{
	{ISO2: "FR", Name: "France", DialCode: "33", Flag: "🇫🇷"},
	{ISO2: "BE", Name: "Belgium", DialCode: "32", Flag: "🇧🇪"},
	{ISO2: "CH", Name: "Switzerland", DialCode: "41", Flag: "🇨🇭"},
	{ISO2: "DE", Name: "Germany", DialCode: "49", Flag: "🇩🇪"},
	{ISO2: "ES", Name: "Spain", DialCode: "34", Flag: "🇪🇸"},
	{ISO2: "IT", Name: "Italy", DialCode: "39", Flag: "🇮🇹"},
	{ISO2: "LU", Name: "Luxembourg", DialCode: "352", Flag: "🇱🇺"},
	{ISO2: "NL", Name: "Netherlands", DialCode: "31", Flag: "🇳🇱"},
	{ISO2: "PT", Name: "Portugal", DialCode: "351", Flag: "🇵🇹"},
	{ISO2: "GB", Name: "United Kingdom", DialCode: "44", Flag: "🇬🇧"},
	{ISO2: "IE", Name: "Ireland", DialCode: "353", Flag: "🇮🇪"},
	{ISO2: "US", Name: "United States", DialCode: "1", Flag: "🇺🇸"},
	{ISO2: "CA", Name: "Canada", DialCode: "1", Flag: "🇨🇦"},
	{ISO2: "MA", Name: "Morocco", DialCode: "212", Flag: "🇲🇦"},
	{ISO2: "SN", Name: "Senegal", DialCode: "221", Flag: "🇸🇳"},
	{ISO2: "AE", Name: "United Arab Emirates", DialCode: "971", Flag: "🇦🇪"},
	{ISO2: "SG", Name: "Singapore", DialCode: "65", Flag: "🇸🇬"},
	{ISO2: "AU", Name: "Australia", DialCode: "61", Flag: "🇦🇺"},
}

// Builtin returns a small catalog used when no external country list is
// configured. France is the default entry.
func Builtin() *Catalog {
	return NewCatalog(builtin)
}
