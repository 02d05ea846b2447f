package messages

import "github.com/ormatov/chatkeeper/internal/i18n"

func pick(lang i18n.Lang, ru, en string) string {
	if lang == i18n.EN {
		return en
	}
	return ru
}

func BtnMyChats(lang i18n.Lang) string    { return pick(lang, "💬 Мои чаты", "💬 My chats") }
func BtnMyChannels(lang i18n.Lang) string { return pick(lang, "📢 Мои каналы", "📢 My channels") }
func BtnSettings(lang i18n.Lang) string   { return pick(lang, "⚙️ Настройки", "⚙️ Settings") }
func BtnHelp(lang i18n.Lang) string       { return pick(lang, "❓ Помощь", "❓ Help") }
func BtnAdminPanel(lang i18n.Lang) string { return pick(lang, "👑 Админ-панель", "👑 Admin panel") }
func BtnBack(lang i18n.Lang) string       { return pick(lang, "🔙 Назад", "🔙 Back") }

func BtnOverallStats(lang i18n.Lang) string { return pick(lang, "📊 Статистика", "📊 Stats") }
func BtnManageUsers(lang i18n.Lang) string {
	return pick(lang, "👥 Пользователи", "👥 Users")
}
func BtnManageChats(lang i18n.Lang) string    { return pick(lang, "💬 Чаты", "💬 Chats") }
func BtnManageChannels(lang i18n.Lang) string { return pick(lang, "📢 Каналы", "📢 Channels") }
func BtnBlockedUsers(lang i18n.Lang) string {
	return pick(lang, "🚫 Заблокированные", "🚫 Blocked users")
}
func BtnTopUsers(lang i18n.Lang) string  { return pick(lang, "🏆 Рейтинг", "🏆 Top users") }
func BtnBroadcast(lang i18n.Lang) string { return pick(lang, "🚀 Рассылка", "🚀 Broadcast") }
func BtnDBStats(lang i18n.Lang) string   { return pick(lang, "🗄 База данных", "🗄 Database") }

func BtnListUsers(lang i18n.Lang) string  { return pick(lang, "📋 Список", "📋 List") }
func BtnSearchUser(lang i18n.Lang) string { return pick(lang, "🔍 Поиск", "🔍 Search") }
func BtnBlock(lang i18n.Lang) string      { return pick(lang, "🚫 Заблокировать", "🚫 Block") }
func BtnUnblock(lang i18n.Lang) string    { return pick(lang, "🔓 Разблокировать", "🔓 Unblock") }
func BtnEditRating(lang i18n.Lang) string {
	return pick(lang, "⭐ Изменить рейтинг", "⭐ Edit rating")
}
func BtnMessage(lang i18n.Lang) string { return pick(lang, "✉️ Написать", "✉️ Message") }
func BtnAddReactions(lang i18n.Lang) string {
	return pick(lang, "❤️ Начислить реакции", "❤️ Add reactions")
}

func BtnRename(lang i18n.Lang) string { return pick(lang, "✏️ Переименовать", "✏️ Rename") }
func BtnWelcomeTemplate(lang i18n.Lang) string {
	return pick(lang, "👋 Приветствие", "👋 Welcome message")
}
func BtnDelete(lang i18n.Lang) string  { return pick(lang, "🗑️ Удалить", "🗑️ Delete") }
func BtnConfirm(lang i18n.Lang) string { return pick(lang, "✅ Подтвердить", "✅ Confirm") }
func BtnCancel(lang i18n.Lang) string  { return pick(lang, "❌ Отмена", "❌ Cancel") }
func BtnMassRemove(lang i18n.Lang) string {
	return pick(lang, "🧹 Массовое удаление", "🧹 Mass remove")
}
func BtnRemoveByUsername(lang i18n.Lang) string {
	return pick(lang, "👤 По имени", "👤 By username")
}
func BtnRemoveAll(lang i18n.Lang) string { return pick(lang, "🗑️ Всех", "🗑️ Everyone") }
func BtnSubscribers(lang i18n.Lang) string {
	return pick(lang, "🔔 Подписчики", "🔔 Subscribers")
}
func BtnAddSubscribers(lang i18n.Lang) string {
	return pick(lang, "➕ Подписать", "➕ Add subscribers")
}
func BtnDropSubscriber(lang i18n.Lang) string {
	return pick(lang, "➖ Отписать", "➖ Unsubscribe")
}
func BtnRecordViews(lang i18n.Lang) string {
	return pick(lang, "👁 Учесть просмотры", "👁 Record views")
}
func BtnLanguage(lang i18n.Lang) string { return pick(lang, "🌐 Язык", "🌐 Language") }
func BtnNotifications(lang i18n.Lang) string {
	return pick(lang, "🔔 Уведомления", "🔔 Notifications")
}
func BtnChangeName(lang i18n.Lang) string { return pick(lang, "✏️ Сменить имя", "✏️ Change name") }
func BtnGlobalNotifications(lang i18n.Lang, enabled bool) string {
	if enabled {
		return pick(lang, "🔔 Глобально: вкл", "🔔 Global: on")
	}
	return pick(lang, "🔕 Глобально: выкл", "🔕 Global: off")
}
func BtnPrevPage(lang i18n.Lang) string   { return pick(lang, "⬅️", "⬅️") }
func BtnNextPage(lang i18n.Lang) string   { return pick(lang, "➡️", "➡️") }

func BtnAudienceUsers(lang i18n.Lang) string {
	return pick(lang, "👥 Всем пользователям", "👥 All users")
}
func BtnAudienceChats(lang i18n.Lang) string   { return pick(lang, "💬 В чаты", "💬 Chats") }
func BtnAudienceChannels(lang i18n.Lang) string { return pick(lang, "📢 В каналы", "📢 Channels") }
