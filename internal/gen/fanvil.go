package gen

// fanvil — генератор для Fanvil (V64 и родственные): конфиг с модульными
// секциями и сигнатурой <<VOIP CONFIG FILE>>, справочник — PhoneBook XML.
type fanvil struct{ tplSet }

var fanvilGen = fanvil{newSet("fanvil", nil)}
