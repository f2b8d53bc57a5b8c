package api

import "net/url"

// Endpoint paths, relative to the server host.
const (
	PathBots          = "/bots"
	PathBotsV2        = "/v2/bot/"
	PathChannelTypes  = "/v2/channel/"
	PathInstallBot    = "/v1/bot/install"
	PathAdminUser     = "/admin_user"
	PathGitHubAuth    = "/github-auth"
	PathIndexData     = "/v1/index-data"
	pathBotV1Prefix   = "/v1/bot/"
	pathBotV2Prefix   = "/v2/bot/"
	pathChannelPrefix = "/v2/channel/"
	pathChatsPrefix   = "/v1/chats/"
)

func PathConfigureBot(botID string) string {
	return pathBotV1Prefix + url.PathEscape(botID) + "/configure"
}

func PathActivateBot(botID string) string {
	return pathBotV1Prefix + url.PathEscape(botID) + "/activate"
}

func PathDeactivateBot(botID string) string {
	return pathBotV1Prefix + url.PathEscape(botID) + "/deactivate"
}

func PathBot(botID string) string {
	return pathBotV1Prefix + url.PathEscape(botID)
}

// PathPatchBot is the unversioned partial-update route.
func PathPatchBot(botID string) string {
	return "/bot/" + url.PathEscape(botID)
}

func PathBotChannels(botID string) string {
	return pathBotV2Prefix + url.PathEscape(botID) + "/channel"
}

func PathChannel(channelID string) string {
	return pathChannelPrefix + url.PathEscape(channelID)
}

func PathChannelToggle(channelID string, activate bool) string {
	if activate {
		return PathChannel(channelID) + "/activate"
	}

	return PathChannel(channelID) + "/deactivate"
}

func PathChats(botID string) string {
	return pathChatsPrefix + url.PathEscape(botID)
}

func PathChatSession(botID, sessionID string) string {
	return PathChats(botID) + "/sessions/" + url.PathEscape(sessionID)
}
