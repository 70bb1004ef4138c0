package enums

type PackagePlatform string

const (
	PlatformInstagram PackagePlatform = "instagram"
	PlatformYouTube   PackagePlatform = "youtube"
	PlatformFacebook  PackagePlatform = "facebook"
	PlatformTwitter   PackagePlatform = "twitter"
	PlatformLinkedIn  PackagePlatform = "linkedin"
)
