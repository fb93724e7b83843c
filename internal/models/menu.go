package models

// MenuItem - пункт навигации с allow-list ролей
type MenuItem struct {
	Route string     `json:"route"`
	Label string     `json:"label"`
	Roles []UserRole `json:"-"`
}

// menuItems - статическая таблица навигации. Карта и история доступны только
// регулятору, дашборд и автопарк - обеим ролям.
var menuItems = []MenuItem{
	{Route: "/dashboard", Label: "Dashboard", Roles: []UserRole{RoleRegulator, RoleFleetManager}},
	{Route: "/map", Label: "Carte Dispatch", Roles: []UserRole{RoleRegulator}},
	{Route: "/fleet", Label: "Gestion de Flotte", Roles: []UserRole{RoleRegulator, RoleFleetManager}},
	{Route: "/history", Label: "Historique", Roles: []UserRole{RoleRegulator}},
}

// AllowedItems возвращает пункты меню, доступные роли. Для неизвестной роли -
// пустой список, не ошибка.
func AllowedItems(role UserRole) []MenuItem {
	allowed := make([]MenuItem, 0, len(menuItems))
	for _, item := range menuItems {
		for _, r := range item.Roles {
			if r == role {
				allowed = append(allowed, item)
				break
			}
		}
	}
	return allowed
}

// RouteAllowed сообщает, доступен ли маршрут меню данной роли
func RouteAllowed(role UserRole, route string) bool {
	for _, item := range AllowedItems(role) {
		if item.Route == route {
			return true
		}
	}
	return false
}
