// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeMenuItems      QueryType = "menu_items"
	QueryTypeMenuByCategory QueryType = "menu_by_category"
	QueryTypeOrderDetails   QueryType = "order_details"
	QueryTypeRecentOrders   QueryType = "recent_orders"
)

type SearchQueryType string

const (
	SearchQueryTypeChatHistory SearchQueryType = "chat_history"
	SearchQueryTypeRecentChats SearchQueryType = "recent_chats"
)
