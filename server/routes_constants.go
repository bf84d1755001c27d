package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin   = "/auth/login"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthRefresh = "/auth/refresh"

	// User Routes
	RouteUserRegister = "/user/register"
	RouteUserMyPage   = "/user/mypage/{userID}"
	RouteUserFolders  = "/user/folders/{userID}"

	// Folder Routes
	RouteFolders       = "/folders"
	RouteFoldersByUser = "/folders/{userID}"

	// ChatPost Routes
	RouteChatPosts     = "/chatposts"
	RouteChatPostsMine = "/chatposts/my-chats"
	RouteChatPostByID  = "/chatposts/{id}"

	// Operational Routes
	RouteMetrics = "/metrics"
)
