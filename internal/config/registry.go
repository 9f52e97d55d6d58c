package config

// defaultRegions is the built-in probe registry: one small static blob per
// cloud region, grouped by geography. All regions start enabled.
func defaultRegions() []Region {
	blob := func(account string) string {
		return "https://" + account + ".blob.core.windows.net/probe/latency-test.json"
	}

	return []Region{
		// Americas
		{Name: "eastus", Geography: "Americas", URL: blob("speedtesteus"), Enabled: true},
		{Name: "eastus2", Geography: "Americas", URL: blob("speedtesteus2"), Enabled: true},
		{Name: "centralus", Geography: "Americas", URL: blob("speedtestcus"), Enabled: true},
		{Name: "northcentralus", Geography: "Americas", URL: blob("speedtestnsus"), Enabled: true},
		{Name: "southcentralus", Geography: "Americas", URL: blob("speedtestscus"), Enabled: true},
		{Name: "westus", Geography: "Americas", URL: blob("speedtestwus"), Enabled: true},
		{Name: "westus2", Geography: "Americas", URL: blob("speedtestwus2"), Enabled: true},
		{Name: "canadacentral", Geography: "Americas", URL: blob("speedtestcac"), Enabled: true},
		{Name: "brazilsouth", Geography: "Americas", URL: blob("speedtestbs"), Enabled: true},

		// Europe
		{Name: "northeurope", Geography: "Europe", URL: blob("speedtestne"), Enabled: true},
		{Name: "westeurope", Geography: "Europe", URL: blob("speedtestwe"), Enabled: true},
		{Name: "uksouth", Geography: "Europe", URL: blob("speedtestuks"), Enabled: true},
		{Name: "francecentral", Geography: "Europe", URL: blob("speedtestfrc"), Enabled: true},
		{Name: "germanywestcentral", Geography: "Europe", URL: blob("speedtestde"), Enabled: true},

		// Asia Pacific
		{Name: "southeastasia", Geography: "Asia Pacific", URL: blob("speedtestsea"), Enabled: true},
		{Name: "eastasia", Geography: "Asia Pacific", URL: blob("speedtestea"), Enabled: true},
		{Name: "japaneast", Geography: "Asia Pacific", URL: blob("speedtestjpe"), Enabled: true},
		{Name: "australiaeast", Geography: "Asia Pacific", URL: blob("speedtestoze"), Enabled: true},
		{Name: "centralindia", Geography: "Asia Pacific", URL: blob("speedtestcentralindia"), Enabled: true},
	}
}
