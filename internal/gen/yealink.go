package gen

import "text/template"

// yealink — генератор для Yealink (T23G и родственные): конфиг в формате
// key = value с заголовком #!version, справочник — remote phonebook XML.
type yealink struct{ tplSet }

var yealinkGen = yealink{newSet("yealink", template.FuncMap{
	"transportCode": yealinkTransportCode,
})}

// yealinkTransportCode — транспорт в числовой код прошивки:
// 0 UDP, 1 TCP, 2 TLS, 3 DNS-NAPTR.
func yealinkTransportCode(transport string) int {
	switch transport {
	case "TCP", "tcp":
		return 1
	case "TLS", "tls":
		return 2
	case "DNS-NAPTR", "dns-naptr":
		return 3
	default:
		return 0
	}
}
