package server

// Server объединяет HTTP-серверы отдельных сущностей.
type Server struct {
	ItemsServer
	RefreshServer
}

func NewServer(
	itemsServer ItemsServer,
	refreshServer RefreshServer,
) Server {
	return Server{
		ItemsServer:   itemsServer,
		RefreshServer: refreshServer,
	}
}
