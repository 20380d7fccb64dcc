package api

import (
	"net/http"
	"sync"

	"loginsight/pkg/log"
	"loginsight/server/dto"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var UpGrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// logonEventHub 向所有已连接的websocket客户端推送新入库的登录事件
var logonEventHub = &eventHub{
	clients: make(map[*websocket.Conn]struct{}),
}

type eventHub struct {
	sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func (h *eventHub) add(ws *websocket.Conn) {
	h.Lock()
	defer h.Unlock()
	h.clients[ws] = struct{}{}
}

func (h *eventHub) remove(ws *websocket.Conn) {
	h.Lock()
	defer h.Unlock()
	delete(h.clients, ws)
	_ = ws.Close()
}

// BroadcastEntries 推送事件, 发送失败的连接直接移除
func (h *eventHub) BroadcastEntries(entries []dto.LogonEventEntry) {
	h.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for ws := range h.clients {
		conns = append(conns, ws)
	}
	h.Unlock()

	for _, ws := range conns {
		if err := ws.WriteJSON(entries); err != nil {
			log.Debugf("websocket推送失败,移除连接: %v", err)
			h.remove(ws)
		}
	}
}

// LogonEventWsEndpoint 实时推送新入库的登录事件
func LogonEventWsEndpoint(c echo.Context) error {
	ws, err := UpGrader.Upgrade(c.Response().Writer, c.Request(), nil)
	if err != nil {
		log.Errorf("websocket升级失败,异常信息:%v", err)
		return err
	}
	logonEventHub.add(ws)

	// 读循环只用于感知连接关闭
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				logonEventHub.remove(ws)
				return
			}
		}
	}()
	return nil
}
