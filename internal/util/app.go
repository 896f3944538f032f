package util

func GetAppName() string {
	return "MarsAI"
}

func GetAppLogoURL(frontURL string) string {
	return frontURL + "/logo.png"
}
