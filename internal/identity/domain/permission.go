package domain

// Tier is the account tier that entitlements derive from.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// Permission names a single capability.
type Permission string

const (
	PermViewTrails        Permission = "view_trails"
	PermLogSightings      Permission = "log_sightings"
	PermViewOwnHistory    Permission = "view_own_history"
	PermDownloadTrailMaps Permission = "download_trail_maps"
	PermAdvancedAnalytics Permission = "advanced_analytics"
	PermAdFreeExperience  Permission = "ad_free_experience"
	PermExclusiveContent  Permission = "exclusive_content"
)

var standardPermissions = []Permission{
	PermViewTrails,
	PermLogSightings,
	PermViewOwnHistory,
}

var premiumPermissions = []Permission{
	PermDownloadTrailMaps,
	PermAdvancedAnalytics,
	PermAdFreeExperience,
	PermExclusiveContent,
}

// Valid reports whether the tier is one of the known values.
func (t Tier) Valid() bool {
	return t == TierStandard || t == TierPremium
}

// Permissions returns the full permission set for the tier. The premium set
// is a strict superset of the standard one.
func (t Tier) Permissions() []Permission {
	perms := make([]Permission, 0, len(standardPermissions)+len(premiumPermissions))
	perms = append(perms, standardPermissions...)
	if t == TierPremium {
		perms = append(perms, premiumPermissions...)
	}
	return perms
}
