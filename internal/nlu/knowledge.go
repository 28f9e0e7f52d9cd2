package nlu

import (
	"fmt"
	"strings"
)

// Reply templates are plain text: any markup is the rendering UI's
// concern.

// GreetingMenu is the opening reply listing what the bot can do
func GreetingMenu() string {
	return "¡Hola! Puedo ayudarte a aprender sobre phishing por correo:\n" +
		"- Señales comunes\n" +
		"- Definiciones y terminología (SPF/DKIM/DMARC, 2FA, etc.)\n" +
		"- Buenas prácticas (enlaces, 2FA, adjuntos, QR)\n" +
		"¿Por dónde empezamos?"
}

// Farewell is the goodbye reply
func Farewell() string {
	return "¡Hasta luego! Fue un placer ayudarte.\n" +
		"Recuerda siempre:\n" +
		"- Verifica los enlaces antes de hacer clic.\n" +
		"- Usa autenticación de dos factores (2FA/MFA).\n" +
		"- Ante la duda, contacta directamente con la organización.\n" +
		"¡Mantente seguro!"
}

// Signals lists the common phishing signals
func Signals() string {
	return "Señales típicas de phishing por correo:\n" +
		"- Urgencia o amenazas inusuales.\n" +
		"- Remitente o nombre visible que no coincide con el email real.\n" +
		"- Enlaces cuyo dominio difiere de la marca esperada.\n" +
		"- Solicitud de credenciales, pagos o datos sensibles.\n" +
		"- Adjuntos inesperados o uso de acortadores/QR sin contexto.\n" +
		"Idea práctica: pasa el cursor por el enlace y verifica el dominio antes de hacer clic."
}

// BestPractices returns the general checklist or the requested subtopic
func BestPractices(subtopic string) string {
	switch subtopic {
	case "enlaces":
		return "Recomendaciones al ver un enlace:\n" +
			"1) Pasa el cursor y compara el dominio con la marca esperada.\n" +
			"2) Evita acortadores sin contexto; entra por marcador propio.\n" +
			"3) Revisa subdominios engañosos (seguridad.tu-banco.com no es tu-banco.seguridad.com).\n" +
			"4) Si dudas, no hagas clic. Abre el sitio manualmente."
	case "contrasenas":
		return "Contraseñas y gestores:\n" +
			"- Usa un gestor para crear y guardar claves únicas.\n" +
			"- Activa 2FA donde sea posible.\n" +
			"- Desconfía de correos que pidan verificar tu contraseña."
	case "2fa":
		return "2FA: ¿por qué te protege?\n" +
			"- Bloquea accesos incluso si adivinan tu contraseña.\n" +
			"- Usa una app de autenticación sobre SMS cuando puedas."
	case "adjuntos":
		return "Adjuntos seguros:\n" +
			"- Desconfía de .zip y .exe.\n" +
			"- Si no esperabas el archivo, confirma por otro canal."
	case "qr":
		return "Códigos QR con cabeza:\n" +
			"- Evita escanear QR de correos inesperados.\n" +
			"- Si debes, verifica a qué dominio apunta antes de iniciar sesión."
	default:
		return "Buenas prácticas esenciales (correo):\n" +
			"1) Verifica remitente y dominio real antes de interactuar.\n" +
			"2) No ingreses credenciales desde enlaces recibidos.\n" +
			"3) Usa 2FA/MFA en tus cuentas importantes.\n" +
			"4) Desconfía de urgencias y premios.\n" +
			"5) Reporta sospechas por el canal oficial.\n" +
			"¿Profundizamos en enlaces, contraseñas, 2FA, adjuntos o QR?"
	}
}

// Terminology explains an email-security term with its purpose and
// limitations
func Terminology(term string) string {
	t := strings.TrimSpace(term)
	if t == "" {
		t = "el término"
	}
	return fmt.Sprintf("%s en correo electrónico:\n%s\nPara qué sirve: %s\nLimitaciones: %s",
		t, briefDefinition(t), benefit(t), limitation(t))
}

// Definition answers "qué es X" style questions
func Definition(term string) string {
	t := strings.TrimSpace(term)
	if t == "" {
		t = "el término"
	}
	return fmt.Sprintf("%s: %s\n¿Prefieres ver señales relacionadas o buenas prácticas?",
		t, standardDefinition(t))
}

// AnalysisPrompt asks the user to upload the file to analyze
func AnalysisPrompt() string {
	return "Para analizar un correo real, adjunta el archivo .eml y lo reviso:\n" +
		"autenticación SPF/DKIM/DMARC, remitente, enlaces y adjuntos.\n" +
		"Mientras tanto también puedo explicarte señales, definiciones y buenas prácticas."
}

// OutOfScope is the default clarifying reply for unrecognized messages
func OutOfScope() string {
	return "Puedo ayudarte a aprender sobre phishing por correo electrónico.\n" +
		"¿Quieres ver señales comunes o una definición?"
}

// ParseFailure is the reply when an uploaded file cannot be read
func ParseFailure() string {
	return "No pude leer este archivo como un correo .eml.\n" +
		"Verifica que sea el mensaje original exportado desde tu cliente de correo e inténtalo de nuevo."
}

// OversizeFailure is the reply when an uploaded file exceeds the cap
func OversizeFailure() string {
	return "El archivo es demasiado grande para analizarlo.\n" +
		"Exporta solo el mensaje (.eml) sin adjuntos pesados e inténtalo de nuevo."
}

// ConversationEnded is the reply for input after a farewell
func ConversationEnded() string {
	return "La conversación terminó. Inicia una nueva sesión para continuar."
}

func briefDefinition(term string) string {
	t := strings.ToLower(term)
	tc := strings.ReplaceAll(t, "-", " ")
	switch {
	case strings.Contains(t, "spf"):
		return "SPF es un registro DNS que indica qué servidores pueden enviar correos en nombre de tu dominio."
	case strings.Contains(t, "dkim"):
		return "DKIM firma criptográficamente los correos para que el receptor valide que no se alteraron."
	case strings.Contains(t, "dmarc"):
		return "DMARC indica cómo tratar correos que fallan SPF/DKIM y permite reportes de suplantación."
	case strings.Contains(t, "2fa"), strings.Contains(t, "mfa"), strings.Contains(t, "doble factor"), strings.Contains(t, "autenticacion"):
		return "2FA/MFA añade una verificación adicional (código, app o llave física) además de la contraseña."
	case strings.Contains(t, "homograf"):
		return "Los homógrafos usan caracteres parecidos (por ejemplo 'app1e' vs 'apple') para engañar."
	case strings.Contains(t, "display name"):
		return "El display name es el nombre visible del remitente; puede suplantarse aunque la dirección real sea otra."
	case strings.Contains(tc, "reply to"):
		return "Reply-To indica a qué dirección se enviará tu respuesta, aunque el correo aparente venir de otra cuenta."
	case strings.Contains(tc, "return path"):
		return "Return-Path es la dirección que recibirá rebotes; si pertenece a otro dominio puede revelar un desvío."
	case strings.Contains(t, "cabecera"), strings.Contains(t, "encabezado"):
		return "Las cabeceras registran el camino y la autenticación de un correo; ahí se esconden la mayoría de las señales de suplantación."
	case strings.Contains(t, "smishing"):
		return "Smishing es phishing por SMS: enlaces o trampas enviados por mensajes de texto."
	case strings.Contains(t, "vishing"):
		return "Vishing es phishing por voz o llamadas, usando presión o urgencia para que reveles datos."
	case strings.Contains(t, "bec"):
		return "Business Email Compromise: suplantación de hilos de correo para desviar pagos o robar información."
	case strings.Contains(t, "ingenieria"):
		return "Ingeniería social: manipulación psicológica para influir en decisiones y obtener información o acción."
	case strings.Contains(t, "phishing"):
		return "Intento de obtener datos o dinero mediante engaño por correo haciéndose pasar por otro."
	default:
		return "Concepto de seguridad en correo; puedo darte ejemplos y señales típicas."
	}
}

func standardDefinition(term string) string {
	t := strings.ToLower(term)
	switch {
	case strings.Contains(t, "2fa"), strings.Contains(t, "mfa"), strings.Contains(t, "doble factor"):
		return "Segundo factor de autenticación además de la contraseña (app autenticadora, token o llave física) que reduce drásticamente el impacto de contraseñas filtradas."
	case strings.Contains(t, "phishing") && !strings.Contains(t, "smishing") && !strings.Contains(t, "vishing"):
		return "Técnica por la que un atacante se hace pasar por una entidad legítima para que entregues credenciales, descargues malware o realices pagos, usualmente mediante correos con enlaces o adjuntos."
	case strings.Contains(t, "smishing"):
		return "Variante de phishing vía SMS que incluye enlaces a sitios falsos o números para devolver la llamada, aprovechando urgencia o premios falsos."
	case strings.Contains(t, "vishing"):
		return "Variante por llamada telefónica o mensajes de voz; el atacante finge ser soporte o tu banco para obtener datos o transferencias."
	case strings.Contains(t, "bec"):
		return "Fraude de correo empresarial donde se comprometen cuentas o se imitan dominios para instruir pagos o cambios bancarios."
	case strings.Contains(t, "ingenieria"):
		return "Conjunto de tácticas que explotan sesgos, urgencia y confianza para inducir acciones riesgosas o revelar información sensible."
	default:
		return briefDefinition(term)
	}
}

func benefit(term string) string {
	t := strings.ToLower(term)
	tc := strings.ReplaceAll(t, "-", " ")
	switch {
	case strings.Contains(t, "spf"):
		return "Ayuda a los receptores a rechazar orígenes no autorizados."
	case strings.Contains(t, "dkim"):
		return "Aporta integridad y autenticidad al contenido del correo."
	case strings.Contains(t, "dmarc"):
		return "Permite políticas anti-suplantación y visibilidad mediante reportes."
	case strings.Contains(t, "2fa"), strings.Contains(t, "mfa"), strings.Contains(t, "autenticacion"):
		return "Reduce drásticamente el riesgo aunque la contraseña se filtre."
	case strings.Contains(tc, "reply to"):
		return "Permite dirigir respuestas a una bandeja controlada sin exponer la cuenta principal."
	case strings.Contains(tc, "return path"):
		return "Facilita gestionar rebotes y verificar qué dominio controla realmente el envío."
	default:
		return "Mejora la comprensión y la detección de señales de phishing."
	}
}

func limitation(term string) string {
	t := strings.ToLower(term)
	tc := strings.ReplaceAll(t, "-", " ")
	switch {
	case strings.Contains(t, "spf"):
		return "No protege bien el reenvío; puede fallar con forwarders si no se ajusta."
	case strings.Contains(t, "dkim"):
		return "Firmas mal configuradas pueden fallar; no evita suplantación por sí sola."
	case strings.Contains(t, "dmarc"):
		return "Requiere SPF/DKIM y alineación correctos; no cubre todos los casos."
	case strings.Contains(t, "2fa"), strings.Contains(t, "mfa"), strings.Contains(t, "autenticacion"):
		return "El phishing puede intentar robar códigos; evita introducirlos en sitios no verificados."
	case strings.Contains(tc, "reply to"):
		return "Puede apuntar a un actor distinto al remitente real; verifica el dominio antes de responder."
	case strings.Contains(tc, "return path"):
		return "Los atacantes pueden definir un Return-Path propio aunque el From parezca legítimo."
	default:
		return "Ningún control es perfecto; combina medidas técnicas y educación."
	}
}
