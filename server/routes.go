package server

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.authAPIMiddleware()...))

	// USER
	s.RegisterRouteHandler("POST "+RouteUserRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUserMyPage, ChainMiddleware(s.MyPageHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUserFolders, ChainMiddleware(s.UserFoldersHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("PUT "+RouteUserFolders, ChainMiddleware(s.OverwriteUserFoldersHandler(), s.authAPIMiddleware()...))

	// FOLDERS
	s.RegisterRouteHandler("POST "+RouteFolders, ChainMiddleware(s.CreateFolderHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFolders, ChainMiddleware(s.ListFoldersHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFoldersByUser, ChainMiddleware(s.ListFoldersByUserHandler(), s.authAPIMiddleware()...))

	// CHATPOSTS
	s.RegisterRouteHandler("POST "+RouteChatPosts, ChainMiddleware(s.CreateChatPostHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteChatPosts, ChainMiddleware(s.ListChatPostsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteChatPostsMine, ChainMiddleware(s.MyChatPostsHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteChatPostByID, ChainMiddleware(s.GetChatPostHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteChatPostByID, ChainMiddleware(s.UpdateChatPostHandler(), s.authAPIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteChatPostByID, ChainMiddleware(s.DeleteChatPostHandler(), s.authAPIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.handler())
}
